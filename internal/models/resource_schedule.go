package models

import (
	"time"

	"github.com/google/uuid"
)

type ResourceSchedule struct {
	Entity

	ResourceID uuid.UUID `gorm:"type:uuid;index:idx_schedule_resource_day;not null" json:"resource_id"`
	DayOfWeek  int       `gorm:"index:idx_schedule_resource_day" json:"day_of_week"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	EffectiveFrom  *time.Time `gorm:"type:date" json:"effective_from,omitempty"`
	EffectiveUntil *time.Time `gorm:"type:date" json:"effective_until,omitempty"`

	Active bool `gorm:"not null;default:true" json:"active"`
}
