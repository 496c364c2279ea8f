package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
)

const (
	sweepBatch  = 200
	sweepReason = "not checked in before grace period ended"
)

// SweepNoShows marks confirmed appointments that ended more than grace ago
// as no-show.
type SweepNoShows struct {
	deps   Deps
	change *ChangeStatus
	grace  time.Duration
}

func NewSweepNoShows(deps Deps, grace time.Duration) *SweepNoShows {
	return &SweepNoShows{
		deps:   deps,
		change: NewChangeStatus(deps),
		grace:  grace,
	}
}

// Execute processes one batch and reports how many appointments moved.
func (uc *SweepNoShows) Execute(ctx context.Context) (int, error) {
	cutoff := uc.deps.now().Add(-uc.grace)

	overdue, err := uc.deps.Appointments.ListOverdueAppointments(
		ctx,
		domain.StatusConfirmed,
		cutoff,
		sweepBatch,
	)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, ap := range overdue {
		_, err := uc.change.Execute(ctx, ChangeStatusInput{
			BusinessID:    ap.BusinessID,
			AppointmentID: ap.ID,
			Status:        domain.StatusNoShow,
			Reason:        sweepReason,
		})
		switch {
		case err == nil:
			moved++
		case errors.Is(err, domain.ErrInvalidStatusTransition):
			// changed by someone else since listed
		default:
			uc.deps.Log.Error().Err(err).Str("appointment_id", ap.ID.String()).Msg("no-show sweep failed")
		}
	}

	return moved, nil
}
