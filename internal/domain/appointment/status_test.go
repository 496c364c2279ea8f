package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:    true,
		{StatusPending, StatusCancelled}:    true,
		{StatusConfirmed, StatusInProgress}: true,
		{StatusConfirmed, StatusCancelled}:  true,
		{StatusConfirmed, StatusNoShow}:     true,
		{StatusInProgress, StatusCompleted}: true,
		{StatusInProgress, StatusCancelled}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s should be allowed, got %v", from, to, err)
				}
				continue
			}
			if !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("%s -> %s should fail with ErrInvalidStatusTransition, got %v", from, to, err)
			}
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, s := range allStatuses {
		want := s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
		if s.Terminal() != want {
			t.Errorf("%s.Terminal() = %v", s, s.Terminal())
		}
	}
	if Status("archived").Valid() {
		t.Error("unknown status reported valid")
	}
}

func TestHoldsResources(t *testing.T) {
	for _, s := range allStatuses {
		want := s != StatusCancelled && s != StatusNoShow
		if s.HoldsResources() != want {
			t.Errorf("%s.HoldsResources() = %v", s, s.HoldsResources())
		}
	}
}

func TestTransitionStampsLifecycle(t *testing.T) {
	now := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Transition(ap, StatusConfirmed, now, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ap.ConfirmedAt == nil || !ap.ConfirmedAt.Equal(now) {
		t.Fatalf("ConfirmedAt not stamped: %v", ap.ConfirmedAt)
	}

	if err := Transition(ap, StatusCancelled, now, "client asked"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.Status != string(StatusCancelled) || ap.CancellationReason != "client asked" || ap.CancelledAt == nil {
		t.Fatalf("unexpected cancelled appointment: %+v", ap)
	}
}

func TestTransitionRejectedLeavesStateUnchanged(t *testing.T) {
	now := time.Now()
	ap := &models.Appointment{Status: string(StatusCompleted)}

	err := Transition(ap, StatusCancelled, now, "too late")
	if !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if ap.Status != string(StatusCompleted) || ap.CancelledAt != nil || ap.CancellationReason != "" {
		t.Fatalf("appointment mutated: %+v", ap)
	}
}
