package repository

import (
	"context"

	"github.com/BruksfildServices01/booking-engine/internal/audit"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

func (s *GormStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	return s.conn(ctx).Create(log).Error
}

func (s *GormStore) ListAuditLogs(
	ctx context.Context,
	filter audit.Filter,
) ([]models.AuditLog, int64, error) {

	// --------------------------------------------------
	// Query base (always scoped to the business)
	// --------------------------------------------------

	q := s.conn(ctx).
		Model(&models.AuditLog{}).
		Where("business_id = ?", filter.BusinessID)

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

var _ audit.Store = (*GormStore)(nil)
