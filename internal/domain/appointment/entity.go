package appointment

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves ap to status to, stamping the matching lifecycle field.
// On error ap is left untouched.
func Transition(ap *models.Appointment, to Status, now time.Time, reason string) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)

	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusInProgress:
		ap.StartedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled, StatusNoShow:
		ap.CancelledAt = &now
		ap.CancellationReason = reason
	}

	return nil
}
