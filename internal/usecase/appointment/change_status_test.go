package appointment

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
)

func bookOne(t *testing.T, f *fixture, start time.Time, confirmed bool) (*models.Appointment, models.Service) {
	t.Helper()

	staff := f.resource(t, "Dr. Lee", "staff", "09:00", "18:00")
	svc := f.service(t, 60)
	f.requires(t, svc, &staff, "", 0)

	in := f.input(svc, start)
	in.Confirmed = confirmed
	ap, err := NewBookAppointment(f.deps()).Execute(f.ctx, in)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	return ap, svc
}

func TestCancelReleasesSlotAndKeepsAllocations(t *testing.T) {
	f := newFixture(t)
	ap, svc := bookOne(t, f, monday(10, 0), false)

	cancelled, err := NewCancelAppointment(f.deps()).Execute(f.ctx, f.business.ID, ap.ID, "client asked", nil)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != string(domain.StatusCancelled) || cancelled.CancelledAt == nil {
		t.Fatalf("status=%s cancelled_at=%v", cancelled.Status, cancelled.CancelledAt)
	}
	if cancelled.CancellationReason != "client asked" {
		t.Errorf("reason = %q", cancelled.CancellationReason)
	}
	if len(cancelled.Resources) != 1 {
		t.Fatalf("allocations should be kept, got %d", len(cancelled.Resources))
	}

	if _, err := NewBookAppointment(f.deps()).Execute(f.ctx, f.input(svc, monday(10, 0))); err != nil {
		t.Fatalf("slot not released: %v", err)
	}

	if got := f.events.types(); !slices.Contains(got, notify.TypeBookingCancelled) {
		t.Fatalf("events = %v", got)
	}
}

func TestChangeStatusRejectsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	ap, _ := bookOne(t, f, monday(10, 0), false)

	uc := NewChangeStatus(f.deps())
	_, err := uc.Execute(f.ctx, ChangeStatusInput{
		BusinessID:    f.business.ID,
		AppointmentID: ap.ID,
		Status:        domain.StatusCompleted,
	})
	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	stored, _ := f.store.GetAppointment(f.ctx, f.business.ID, ap.ID)
	if stored.Status != string(domain.StatusPending) || stored.CompletedAt != nil {
		t.Fatalf("appointment changed: %+v", stored)
	}
}

func TestChangeStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ap, _ := bookOne(t, f, monday(10, 0), false)

	uc := NewChangeStatus(f.deps())
	for _, next := range []domain.Status{domain.StatusConfirmed, domain.StatusInProgress, domain.StatusCompleted} {
		got, err := uc.Execute(f.ctx, ChangeStatusInput{
			BusinessID:    f.business.ID,
			AppointmentID: ap.ID,
			Status:        next,
		})
		if err != nil {
			t.Fatalf("%s: %v", next, err)
		}
		if got.Status != string(next) {
			t.Fatalf("status = %s, want %s", got.Status, next)
		}
	}

	stored, _ := f.store.GetAppointment(f.ctx, f.business.ID, ap.ID)
	if stored.ConfirmedAt == nil || stored.StartedAt == nil || stored.CompletedAt == nil {
		t.Fatalf("lifecycle timestamps missing: %+v", stored)
	}
}

func TestChangeStatusUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	bookOne(t, f, monday(10, 0), false)

	_, err := NewChangeStatus(f.deps()).Execute(f.ctx, ChangeStatusInput{
		BusinessID:    f.business.ID,
		AppointmentID: uuid.New(),
		Status:        domain.StatusCancelled,
	})
	if !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSweepNoShows(t *testing.T) {
	f := newFixture(t)
	confirmed, svc := bookOne(t, f, monday(10, 0), true)

	pending, err := NewBookAppointment(f.deps()).Execute(f.ctx, f.input(svc, monday(12, 0)))
	if err != nil {
		t.Fatalf("book pending: %v", err)
	}

	f.now = monday(13, 30)
	moved, err := NewSweepNoShows(f.deps(), 30*time.Minute).Execute(f.ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if moved != 1 {
		t.Fatalf("moved = %d", moved)
	}

	got, _ := f.store.GetAppointment(f.ctx, f.business.ID, confirmed.ID)
	if got.Status != string(domain.StatusNoShow) {
		t.Fatalf("confirmed appointment status = %s", got.Status)
	}
	got, _ = f.store.GetAppointment(f.ctx, f.business.ID, pending.ID)
	if got.Status != string(domain.StatusPending) {
		t.Fatalf("pending appointment status = %s", got.Status)
	}

	again, _ := NewSweepNoShows(f.deps(), 30*time.Minute).Execute(f.ctx)
	if again != 0 {
		t.Fatalf("second sweep moved %d", again)
	}
}

func TestListAppointmentsByDate(t *testing.T) {
	f := newFixture(t)
	ap, _ := bookOne(t, f, monday(10, 0), false)

	list := NewListAppointments(f.store)

	got, err := list.ByDate(f.ctx, f.business.ID, monday(0, 0))
	if err != nil {
		t.Fatalf("ByDate: %v", err)
	}
	if len(got) != 1 || got[0].ID != ap.ID || got[0].ClientName != "Ana Souza" || got[0].ServiceName != "Consultation" {
		t.Fatalf("unexpected list %+v", got)
	}

	next, _ := list.ByDate(f.ctx, f.business.ID, monday(0, 0).AddDate(0, 0, 1))
	if len(next) != 0 {
		t.Fatalf("next day returned %d", len(next))
	}

	month, _ := list.ByMonth(f.ctx, f.business.ID, 2025, 3)
	if len(month) != 1 {
		t.Fatalf("month returned %d", len(month))
	}
}
