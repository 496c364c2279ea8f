package models

import "github.com/google/uuid"

// ServiceResource declares what a service consumes. Either ResourceID names
// a specific resource or ResourceType names a pool of interchangeable ones.
// A pool may rank some of its members in PreferredResourceIDs; they are
// tried first, in that order, before the rest of the pool.
type ServiceResource struct {
	Entity

	ServiceID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"service_id"`
	ResourceID   *uuid.UUID `gorm:"type:uuid;index" json:"resource_id,omitempty"`
	ResourceType string     `gorm:"size:20" json:"resource_type,omitempty"`

	PreferredResourceIDs []uuid.UUID `gorm:"serializer:json;type:text" json:"preferred_resource_ids,omitempty"`

	Quantity        int  `gorm:"not null;default:1" json:"quantity"`
	IsRequired      bool `gorm:"not null;default:true" json:"is_required"`
	PreferenceOrder int  `gorm:"not null;default:0" json:"preference_order"`
	SetupMinutes    int  `gorm:"not null;default:0" json:"setup_minutes"`
	CleanupMinutes  int  `gorm:"not null;default:0" json:"cleanup_minutes"`
}
