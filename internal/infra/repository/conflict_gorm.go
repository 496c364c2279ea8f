package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func (s *GormStore) ListBlocks(
	ctx context.Context,
	resourceIDs []uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.ResourceBlock, error) {

	var out []models.ResourceBlock
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where(
			"resource_id IN ? AND start_time < ? AND end_time > ?",
			resourceIDs,
			end,
			start,
		).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllocations joins the owning appointment so the detector can filter
// on its status. Rows of every status are returned.
func (s *GormStore) ListAllocations(
	ctx context.Context,
	resourceIDs []uuid.UUID,
	start time.Time,
	end time.Time,
) ([]models.AppointmentResource, error) {

	var out []models.AppointmentResource
	if err := s.conn(ctx).
		Table("appointment_resources AS ar").
		Select("ar.*, ap.status AS appointment_status, ap.reference AS appointment_reference").
		Joins("JOIN appointments ap ON ap.id = ar.appointment_id").
		Where("ap.deleted_at IS NULL").
		Where(
			"ar.resource_id IN ? AND ar.allocated_start < ? AND ar.allocated_end > ?",
			resourceIDs,
			end,
			start,
		).
		Order("ar.allocated_start ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ conflict.Store = (*GormStore)(nil)
