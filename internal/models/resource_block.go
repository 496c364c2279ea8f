package models

import (
	"time"

	"github.com/google/uuid"
)

type ResourceBlock struct {
	Entity

	ResourceID uuid.UUID `gorm:"type:uuid;index:idx_block_resource_period;not null" json:"resource_id"`
	StartTime  time.Time `gorm:"index:idx_block_resource_period;not null" json:"start_time"`
	EndTime    time.Time `gorm:"index:idx_block_resource_period;not null" json:"end_time"`

	BlockType string `gorm:"size:20;index;not null" json:"block_type"`
	Reason    string `gorm:"type:text" json:"reason"`

	// Recurrence is stored for reference only; rows are never expanded.
	IsRecurring    bool   `gorm:"default:false" json:"is_recurring"`
	RecurrenceRule string `gorm:"type:text" json:"recurrence_rule,omitempty"`
}
