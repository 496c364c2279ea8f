// Package notify carries booking events to whatever delivers them. Delivery
// itself (email, SMS) happens outside this service.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	TypeBookingConfirmed = "booking:confirmed"
	TypeBookingCancelled = "booking:cancelled"
)

type Event struct {
	Type          string    `json:"type"`
	BusinessID    uuid.UUID `json:"business_id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	Reference     string    `json:"booking_reference"`
	Status        string    `json:"status"`
	Start         time.Time `json:"start_time"`
	End           time.Time `json:"end_time"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Key identifies the event for deduplication. One appointment produces at
// most one event of each type.
func (e Event) Key() string {
	return e.Type + ":" + e.AppointmentID.String()
}

func NewEvent(typ string, ap *models.Appointment, now time.Time) Event {
	return Event{
		Type:          typ,
		BusinessID:    ap.BusinessID,
		AppointmentID: ap.ID,
		Reference:     ap.Reference,
		Status:        ap.Status,
		Start:         ap.StartTime,
		End:           ap.EndTime,
		Reason:        ap.CancellationReason,
		OccurredAt:    now,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// LogPublisher only logs events. It is used when no queue is configured.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "notify").Logger()}
}

func (p *LogPublisher) Publish(ctx context.Context, ev Event) error {
	p.log.Info().
		Str("type", ev.Type).
		Str("appointment_id", ev.AppointmentID.String()).
		Str("reference", ev.Reference).
		Msg("booking event")
	return nil
}
