package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if cfg.StorageDriver != DriverMemory {
		t.Errorf("StorageDriver = %q", cfg.StorageDriver)
	}
	if cfg.SlotGranularity() != 30*time.Minute {
		t.Errorf("SlotGranularity = %s", cfg.SlotGranularity())
	}
	if cfg.AvailabilityCacheTTL != 5*time.Minute {
		t.Errorf("AvailabilityCacheTTL = %s", cfg.AvailabilityCacheTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Env:                    "development",
			StorageDriver:          DriverPostgres,
			DBUrl:                  "postgres://localhost/booking",
			JWTSecret:              "secret",
			RateLimitRPS:           1,
			RateLimitBurst:         1,
			SlotGranularityMinutes: 15,
			SearchHorizonDays:      30,
			WorkerConcurrency:      1,
		}
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }, false},
		{"postgres without url", func(c *Config) { c.DBUrl = "" }, false},
		{"memory without url", func(c *Config) { c.StorageDriver = DriverMemory; c.DBUrl = "" }, true},
		{"default secret in production", func(c *Config) { c.Env = "production"; c.JWTSecret = "changeme" }, false},
		{"granularity not dividing hour", func(c *Config) { c.SlotGranularityMinutes = 25 }, false},
		{"zero horizon", func(c *Config) { c.SearchHorizonDays = 0 }, false},
		{"no rate limit", func(c *Config) { c.RateLimitRPS = 0 }, false},
		{"negative grace", func(c *Config) { c.NoShowGraceMinutes = -1 }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
