package resource

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func TestRequirementsOrderAndBuffers(t *testing.T) {
	service := &models.Service{DurationMinutes: 60, BufferMinutes: 10}
	room := uuid.New()

	rows := []models.ServiceResource{
		{ResourceType: string(TypeStaff), Quantity: 1, IsRequired: true, PreferenceOrder: 2},
		{ResourceID: &room, Quantity: 0, IsRequired: true, PreferenceOrder: 1, SetupMinutes: 15, CleanupMinutes: 5},
	}
	for i := range rows {
		rows[i].ID = uuid.New()
	}

	reqs := Requirements(service, rows)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if !reqs[0].Specific() || *reqs[0].ResourceID != room {
		t.Fatal("room requirement should come first by preference")
	}
	if reqs[0].Quantity != 1 {
		t.Errorf("quantity should default to 1, got %d", reqs[0].Quantity)
	}
	if reqs[0].Setup != 15*time.Minute || reqs[0].Cleanup != 15*time.Minute {
		t.Errorf("buffers = %s/%s", reqs[0].Setup, reqs[0].Cleanup)
	}

	start := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	w := reqs[0].Window(start, time.Hour)
	if !w.Start.Equal(start.Add(-15*time.Minute)) || !w.End.Equal(start.Add(75*time.Minute)) {
		t.Errorf("buffered window = %s", w)
	}

	setup, cleanup := MaxBuffers(reqs)
	if setup != 15*time.Minute || cleanup != 15*time.Minute {
		t.Errorf("MaxBuffers = %s/%s", setup, cleanup)
	}
}

func TestValidateSchedule(t *testing.T) {
	cases := []struct {
		name string
		s    models.ResourceSchedule
		ok   bool
	}{
		{"valid", models.ResourceSchedule{DayOfWeek: 0, StartTime: "09:00", EndTime: "18:00"}, true},
		{"end of day", models.ResourceSchedule{DayOfWeek: 6, StartTime: "18:00", EndTime: "24:00"}, true},
		{"inverted", models.ResourceSchedule{DayOfWeek: 0, StartTime: "18:00", EndTime: "09:00"}, false},
		{"empty window", models.ResourceSchedule{DayOfWeek: 0, StartTime: "09:00", EndTime: "09:00"}, false},
		{"bad day", models.ResourceSchedule{DayOfWeek: 7, StartTime: "09:00", EndTime: "18:00"}, false},
		{"bad clock", models.ResourceSchedule{DayOfWeek: 0, StartTime: "9am", EndTime: "18:00"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSchedule(&tc.s)
			if (err == nil) != tc.ok {
				t.Fatalf("ValidateSchedule err = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}

func TestValidateService(t *testing.T) {
	if err := ValidateService(&models.Service{Name: "Cut", DurationMinutes: 4}); err == nil {
		t.Error("duration below 5 accepted")
	}
	if err := ValidateService(&models.Service{Name: "Cut", DurationMinutes: 30, BufferMinutes: 61}); err == nil {
		t.Error("buffer above 60 accepted")
	}
	if err := ValidateService(&models.Service{Name: "Cut", DurationMinutes: 30}); err != nil {
		t.Errorf("valid service rejected: %v", err)
	}
}

func TestValidateServiceResourcePreferred(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	cases := []struct {
		name string
		r    models.ServiceResource
		ok   bool
	}{
		{"ranked pool", models.ServiceResource{ResourceType: "staff", Quantity: 1, PreferredResourceIDs: []uuid.UUID{a, b}}, true},
		{"on a specific row", models.ServiceResource{ResourceID: &a, Quantity: 1, PreferredResourceIDs: []uuid.UUID{b}}, false},
		{"repeated member", models.ServiceResource{ResourceType: "staff", Quantity: 1, PreferredResourceIDs: []uuid.UUID{a, a}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateServiceResource(&tc.r)
			if (err == nil) != tc.ok {
				t.Fatalf("ValidateServiceResource err = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}

func TestRequirementsCarryPreferredMembers(t *testing.T) {
	member := uuid.New()
	row := models.ServiceResource{ResourceType: "staff", Quantity: 1, IsRequired: true, PreferredResourceIDs: []uuid.UUID{member}}
	row.ID = uuid.New()

	reqs := Requirements(&models.Service{DurationMinutes: 30}, []models.ServiceResource{row})
	if len(reqs) != 1 || len(reqs[0].Preferred) != 1 || reqs[0].Preferred[0] != member {
		t.Fatalf("requirements = %+v", reqs)
	}
}
