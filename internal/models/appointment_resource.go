package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentResource struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AppointmentID uuid.UUID `gorm:"type:uuid;index;not null" json:"appointment_id"`
	ResourceID    uuid.UUID `gorm:"type:uuid;index:idx_allocation_resource_period;not null" json:"resource_id"`

	AllocatedStart time.Time `gorm:"index:idx_allocation_resource_period;not null" json:"allocated_start"`
	AllocatedEnd   time.Time `gorm:"index:idx_allocation_resource_period;not null" json:"allocated_end"`

	CreatedAt time.Time `json:"created_at"`

	// Filled by the allocation queries from the owning appointment.
	AppointmentStatus    string `gorm:"->;-:migration" json:"appointment_status,omitempty"`
	AppointmentReference string `gorm:"->;-:migration" json:"appointment_reference,omitempty"`
}

func (a *AppointmentResource) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
