package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	domain "github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/notify"
)

// AvailabilityInvalidator drops cached availability touched by a write.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, businessID uuid.UUID, start, end time.Time) error
}

// Deps are the collaborators shared by the appointment use cases. Cache and
// Events are optional.
type Deps struct {
	Appointments domain.Repository
	Resources    resource.Repository
	Detector     *conflict.Detector
	Audit        *audit.Dispatcher
	Cache        AvailabilityInvalidator
	Events       notify.Publisher
	Log          zerolog.Logger
	Now          func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// ======================================================
// AFTER COMMIT
// ======================================================

// afterCommit runs the side effects of a committed write. None of them can
// fail the request.
func (d Deps) afterCommit(
	ctx context.Context,
	ap *models.Appointment,
	loc *time.Location,
	availabilityChanged bool,
	eventType string,
	ev audit.Event,
) {

	if d.Cache != nil && availabilityChanged {
		start, end := allocatedSpan(ap)
		if err := d.Cache.Invalidate(ctx, ap.BusinessID, start.In(loc), end.In(loc)); err != nil {
			d.Log.Warn().Err(err).Str("appointment_id", ap.ID.String()).Msg("availability cache invalidation failed")
		}
	}

	if d.Audit != nil {
		d.Audit.Dispatch(ev)
	}

	if d.Events != nil && eventType != "" {
		if err := d.Events.Publish(ctx, notify.NewEvent(eventType, ap, d.now())); err != nil {
			d.Log.Error().Err(err).Str("appointment_id", ap.ID.String()).Str("type", eventType).Msg("publish booking event failed")
		}
	}
}

// allocatedSpan is the widest window held by ap, buffers included.
func allocatedSpan(ap *models.Appointment) (time.Time, time.Time) {
	start, end := ap.StartTime, ap.EndTime
	for _, a := range ap.Resources {
		if a.AllocatedStart.Before(start) {
			start = a.AllocatedStart
		}
		if a.AllocatedEnd.After(end) {
			end = a.AllocatedEnd
		}
	}
	return start, end
}
