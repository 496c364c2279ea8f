package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

type ChangeStatusInput struct {
	BusinessID    uuid.UUID
	AppointmentID uuid.UUID
	Status        domain.Status
	Reason        string
	ActorID       *uuid.UUID
}

type ChangeStatus struct {
	deps Deps
}

func NewChangeStatus(deps Deps) *ChangeStatus {
	return &ChangeStatus{deps: deps}
}

// Execute moves an appointment through the status machine. Allocations are
// kept on cancellation and no-show; the conflict detector ignores them by
// status.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	if !in.Status.Valid() {
		return nil, httperr.ErrValidation("status", "unknown status")
	}
	if len(in.Reason) > 1000 {
		return nil, httperr.ErrValidation("reason", "too long")
	}

	business, err := uc.deps.Appointments.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	var (
		ap   *models.Appointment
		from domain.Status
	)

	err = uc.deps.Appointments.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		ap, err = uc.deps.Appointments.GetAppointmentForUpdate(ctx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}

		from = domain.Status(ap.Status)
		if err := domain.Transition(ap, in.Status, uc.deps.now(), in.Reason); err != nil {
			return err
		}
		ap.Audit.UpdatedBy = in.ActorID

		return uc.deps.Appointments.UpdateAppointment(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// After commit
	// --------------------------------------------------
	full, err := uc.deps.Appointments.GetAppointment(ctx, in.BusinessID, ap.ID)
	if err != nil {
		return nil, err
	}

	var eventType string
	switch in.Status {
	case domain.StatusConfirmed:
		eventType = notify.TypeBookingConfirmed
	case domain.StatusCancelled:
		eventType = notify.TypeBookingCancelled
	}

	action := audit.ActionAppointmentStatusChanged
	if in.Status == domain.StatusNoShow {
		action = audit.ActionAppointmentNoShow
	}

	uc.deps.afterCommit(
		ctx,
		full,
		timezone.Location(business.Timezone),
		!in.Status.HoldsResources(),
		eventType,
		audit.Event{
			BusinessID: in.BusinessID,
			UserID:     in.ActorID,
			Action:     action,
			Entity:     "appointment",
			EntityID:   &full.ID,
			Metadata: map[string]any{
				"from":   from,
				"to":     in.Status,
				"reason": in.Reason,
			},
		},
	)

	return full, nil
}

// ======================================================
// SHORTCUTS
// ======================================================

type CancelAppointment struct {
	change *ChangeStatus
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{change: NewChangeStatus(deps)}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	businessID uuid.UUID,
	appointmentID uuid.UUID,
	reason string,
	actorID *uuid.UUID,
) (*models.Appointment, error) {
	return uc.change.Execute(ctx, ChangeStatusInput{
		BusinessID:    businessID,
		AppointmentID: appointmentID,
		Status:        domain.StatusCancelled,
		Reason:        reason,
		ActorID:       actorID,
	})
}
