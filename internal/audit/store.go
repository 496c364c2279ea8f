package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	ActionAppointmentCreated       = "appointment_created"
	ActionAppointmentStatusChanged = "appointment_status_changed"
	ActionAppointmentNoShow        = "appointment_no_show"
	ActionResourceCreated          = "resource_created"
	ActionResourceUpdated          = "resource_updated"
	ActionScheduleCreated          = "schedule_created"
	ActionBlockCreated             = "block_created"
	ActionBlockDeleted             = "block_deleted"
	ActionServiceCreated           = "service_created"
	ActionRequirementCreated       = "service_requirement_created"
	ActionBusinessCreated          = "business_created"
)

// Filter narrows an audit listing. Zero values are ignored.
type Filter struct {
	BusinessID uuid.UUID
	Action     string
	Entity     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Store interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error

	// ListAuditLogs returns one page, newest first, and the total match count.
	ListAuditLogs(ctx context.Context, filter Filter) ([]models.AuditLog, int64, error)
}
