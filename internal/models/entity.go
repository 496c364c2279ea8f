package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditTrail records who created and last changed a row.
type AuditTrail struct {
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
}

// Entity is embedded by every tenant-owned row.
//
// DeletedAt is a plain column on purpose: queries filter it explicitly with
// the repository's activeOnly scope instead of gorm's implicit soft delete.
type Entity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index;not null" json:"business_id"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`

	Audit AuditTrail `gorm:"embedded" json:"audit"`
}

func (e *Entity) BeforeCreate(tx *gorm.DB) error {
	e.EnsureID()
	return nil
}

func (e *Entity) EnsureID() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
}

func (e *Entity) IsDeleted() bool {
	return e.DeletedAt != nil
}

func (e *Entity) SoftDelete(now time.Time, by *uuid.UUID) {
	e.DeletedAt = &now
	e.Audit.UpdatedBy = by
}
