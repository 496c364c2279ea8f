package models

import (
	"time"

	"github.com/google/uuid"
)

type Appointment struct {
	Entity

	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"service_id"`
	Service   *Service  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`
	Client   *Client   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	StartTime time.Time `gorm:"index;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status    string `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	Source    string `gorm:"size:20;not null;default:'online'" json:"source"`
	Reference string `gorm:"size:20;uniqueIndex;not null" json:"booking_reference"`

	Notes              string `gorm:"size:255" json:"notes"`
	CancellationReason string `gorm:"type:text" json:"cancellation_reason,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	Resources []AppointmentResource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"resources,omitempty"`
}
