package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type AppointmentListDTO struct {
	ID          uuid.UUID   `json:"id"`
	Reference   string      `json:"booking_reference"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Status      string      `json:"status"`
	Source      string      `json:"source"`
	ClientName  string      `json:"client_name"`
	ServiceName string      `json:"service_name"`
	ResourceIDs []uuid.UUID `json:"resource_ids"`
}

// NewAppointmentListDTO renders times in loc, the business timezone.
func NewAppointmentListDTO(ap models.Appointment, loc *time.Location) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:          ap.ID,
		Reference:   ap.Reference,
		StartTime:   ap.StartTime.In(loc),
		EndTime:     ap.EndTime.In(loc),
		Status:      ap.Status,
		Source:      ap.Source,
		ResourceIDs: make([]uuid.UUID, 0, len(ap.Resources)),
	}
	if ap.Client != nil {
		out.ClientName = ap.Client.Name
	}
	if ap.Service != nil {
		out.ServiceName = ap.Service.Name
	}
	for _, r := range ap.Resources {
		out.ResourceIDs = append(out.ResourceIDs, r.ResourceID)
	}
	return out
}
