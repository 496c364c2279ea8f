package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-engine/internal/db"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/infra/cache"
	"github.com/BruksfildServices01/booking-engine/internal/infra/memory"
	"github.com/BruksfildServices01/booking-engine/internal/infra/repository"
	"github.com/BruksfildServices01/booking-engine/internal/jobs"
	"github.com/BruksfildServices01/booking-engine/internal/logger"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
	"github.com/BruksfildServices01/booking-engine/internal/routes"
	ucAppointment "github.com/BruksfildServices01/booking-engine/internal/usecase/appointment"
	ucAvailability "github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
	ucDirectory "github.com/BruksfildServices01/booking-engine/internal/usecase/directory"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "booking-engine",
		Short:        "Multi-tenant appointment booking engine",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(tenantCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ======================================================
// BOOTSTRAP
// ======================================================

type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	db    *gorm.DB
	store routes.Store
	redis *redis.Client
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		log: logger.New(cfg.Env, cfg.LogLevel),
	}

	switch cfg.StorageDriver {
	case config.DriverMemory:
		a.log.Warn().Msg("using in-memory storage; data is lost on exit")
		a.store = memory.NewStore()
	default:
		db, err := dbpkg.NewDB(cfg, a.log)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.store = repository.NewGormStore(db)
	}

	if cfg.UseRedis() {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisCacheDB,
		})
	}

	return a, nil
}

func (a *app) queueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.cfg.RedisAddr,
		Password: a.cfg.RedisPassword,
		DB:       a.cfg.RedisQueueDB,
	}
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// ======================================================
// SERVE
// ======================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := audit.NewDispatcher(audit.New(a.store), a.log)
	defer dispatcher.Close()

	var events notify.Publisher = notify.NewLogPublisher(a.log)
	if a.cfg.UseRedis() {
		publisher := notify.NewAsynqPublisher(a.queueOpt())
		defer publisher.Close()
		events = publisher
	} else {
		a.log.Warn().Msg("REDIS_ADDR not set; availability cache off and booking events only logged")
	}

	if !a.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config: a.cfg,
		Log:    a.log,
		Store:  a.store,
		Audit:  dispatcher,
		Events: events,
		Redis:  a.redis,
	})

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// ======================================================
// MIGRATE
// ======================================================

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if a.db == nil {
				return fmt.Errorf("migrate needs STORAGE_DRIVER=%s", config.DriverPostgres)
			}
			if err := dbpkg.Migrate(a.db); err != nil {
				return err
			}

			a.log.Info().Msg("schema up to date")
			return nil
		},
	}
}

// ======================================================
// WORKER
// ======================================================

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the notification consumer and the no-show sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()
			return a.work(cmd.Context())
		},
	}
}

func (a *app) work(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher := audit.NewDispatcher(audit.New(a.store), a.log)
	defer dispatcher.Close()

	detector := conflict.NewDetector(a.store)
	deps := ucAppointment.Deps{
		Appointments: a.store,
		Resources:    a.store,
		Detector:     detector,
		Audit:        dispatcher,
		Events:       notify.NewLogPublisher(a.log),
		Log:          a.log,
	}
	if a.redis != nil {
		deps.Cache = cache.NewServiceSlots(
			ucAvailability.NewGetServiceSlots(a.store, a.store, detector, a.cfg.SlotGranularity()),
			a.redis,
			a.cfg.AvailabilityCacheTTL,
			a.log,
		)
	}

	scheduler := jobs.NewScheduler(a.log)
	if err := scheduler.AddNoShowSweep(
		a.cfg.NoShowSweepSpec,
		ucAppointment.NewSweepNoShows(deps, a.cfg.NoShowGrace()),
	); err != nil {
		return fmt.Errorf("schedule no-show sweep: %w", err)
	}
	scheduler.Start()

	var srv *asynq.Server
	if a.cfg.UseRedis() {
		srv = notify.NewServer(a.queueOpt(), a.cfg.WorkerConcurrency, a.log)
		mux := notify.NewServeMux(notify.NewHandler(notify.NewLogDeliverer(a.log), a.log))
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("start notification worker: %w", err)
		}
	} else {
		a.log.Warn().Msg("REDIS_ADDR not set; only the no-show sweeper runs")
	}

	<-ctx.Done()
	a.log.Info().Msg("worker shutting down")

	if srv != nil {
		srv.Shutdown()
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	scheduler.Stop(stopCtx)
	return nil
}

// ======================================================
// TENANT
// ======================================================

func tenantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage businesses",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Register a business",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			slug, _ := cmd.Flags().GetString("slug")
			tz, _ := cmd.Flags().GetString("timezone")
			minAdvance, _ := cmd.Flags().GetInt("min-advance")
			autoConfirm, _ := cmd.Flags().GetBool("auto-confirm")

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			dispatcher := audit.NewDispatcher(audit.New(a.store), a.log)
			defer dispatcher.Close()

			mgr := ucDirectory.NewManager(ucDirectory.Deps{
				Businesses: a.store,
				Resources:  a.store,
				Audit:      dispatcher,
				Log:        a.log,
			})

			b := &models.Business{
				Name:              name,
				Slug:              slug,
				Timezone:          tz,
				MinAdvanceMinutes: minAdvance,
				AutoConfirm:       autoConfirm,
			}
			if err := mgr.CreateBusiness(cmd.Context(), b); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created business %s (%s) id=%s\n", b.Name, b.Slug, b.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Business display name")
	createCmd.Flags().String("slug", "", "Public booking handle")
	createCmd.Flags().String("timezone", "UTC", "IANA timezone")
	createCmd.Flags().Int("min-advance", 0, "Minimum notice for online bookings, in minutes")
	createCmd.Flags().Bool("auto-confirm", false, "Confirm online bookings immediately")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("slug")

	cmd.AddCommand(createCmd)
	return cmd
}
