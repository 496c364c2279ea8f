package resource

import (
	"slices"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

const (
	MinServiceMinutes = 5
	MaxServiceMinutes = 480
	MaxBufferMinutes  = 60
)

func ValidateResource(res *models.Resource) error {
	if res.Name == "" {
		return httperr.ErrValidation("name", "is required")
	}
	if !Type(res.Type).Valid() {
		return httperr.ErrValidation("type", "must be staff, room or equipment")
	}
	if res.Capacity < 1 {
		return httperr.ErrValidation("capacity", "must be at least 1")
	}
	return nil
}

func ValidateSchedule(s *models.ResourceSchedule) error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return httperr.ErrValidation("day_of_week", "must be between 0 (Monday) and 6 (Sunday)")
	}

	start, err := calendar.ClockMinutes(s.StartTime)
	if err != nil {
		return httperr.ErrValidation("start_time", "must be HH:MM")
	}
	end, err := calendar.ClockMinutes(s.EndTime)
	if err != nil {
		return httperr.ErrValidation("end_time", "must be HH:MM")
	}
	if start >= end {
		return httperr.ErrValidation("end_time", "must be after start_time")
	}

	if s.EffectiveFrom != nil && s.EffectiveUntil != nil &&
		calendar.DateBefore(*s.EffectiveUntil, *s.EffectiveFrom) {
		return httperr.ErrValidation("effective_until", "must not be before effective_from")
	}
	return nil
}

func ValidateBlock(b *models.ResourceBlock) error {
	if !BlockType(b.BlockType).Valid() {
		return httperr.ErrValidation("block_type", "is not a known block type")
	}
	if !b.StartTime.Before(b.EndTime) {
		return httperr.ErrValidation("end_time", "must be after start_time")
	}
	return nil
}

func ValidateService(s *models.Service) error {
	if s.Name == "" {
		return httperr.ErrValidation("name", "is required")
	}
	if s.DurationMinutes < MinServiceMinutes || s.DurationMinutes > MaxServiceMinutes {
		return httperr.ErrValidation("duration_minutes", "must be between 5 and 480")
	}
	if s.BufferMinutes < 0 || s.BufferMinutes > MaxBufferMinutes {
		return httperr.ErrValidation("buffer_minutes", "must be between 0 and 60")
	}
	return nil
}

func ValidateServiceResource(r *models.ServiceResource) error {
	if r.ResourceID == nil && !Type(r.ResourceType).Valid() {
		return httperr.ErrValidation("resource", "either resource_id or a valid resource_type is required")
	}
	if r.ResourceID != nil && r.ResourceType != "" {
		return httperr.ErrValidation("resource", "resource_id and resource_type are exclusive")
	}
	if r.Quantity < 1 {
		return httperr.ErrValidation("quantity", "must be at least 1")
	}
	if len(r.PreferredResourceIDs) > 0 && r.ResourceID != nil {
		return httperr.ErrValidation("preferred_resource_ids", "only applies to resource_type pools")
	}
	for i, id := range r.PreferredResourceIDs {
		if slices.Contains(r.PreferredResourceIDs[:i], id) {
			return httperr.ErrValidation("preferred_resource_ids", "must not repeat a resource")
		}
	}
	if r.SetupMinutes < 0 || r.CleanupMinutes < 0 {
		return httperr.ErrValidation("buffers", "must not be negative")
	}
	return nil
}
