package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// --------------------------------------------------
// Resource
// --------------------------------------------------

func (s *GormStore) GetResource(
	ctx context.Context,
	businessID uuid.UUID,
	resourceID uuid.UUID,
) (*models.Resource, error) {

	var res models.Resource
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("id = ? AND business_id = ?", resourceID, businessID).
		First(&res).Error; err != nil {
		return nil, notFound(err, resource.ErrResourceNotFound)
	}
	return &res, nil
}

func (s *GormStore) ListResources(
	ctx context.Context,
	businessID uuid.UUID,
	filter resource.ListFilter,
) ([]models.Resource, error) {

	q := s.conn(ctx).
		Scopes(activeOnly).
		Where("business_id = ?", businessID)

	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", string(filter.Type))
	}

	var out []models.Resource
	if err := q.Order("name ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateResource(ctx context.Context, res *models.Resource) error {
	return mapError(s.conn(ctx).Omit("Schedules").Create(res).Error)
}

func (s *GormStore) UpdateResource(ctx context.Context, res *models.Resource) error {
	return mapError(s.conn(ctx).Omit("Schedules").Save(res).Error)
}

// --------------------------------------------------
// Schedule
// --------------------------------------------------

func (s *GormStore) ListSchedules(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]models.ResourceSchedule, error) {

	var out []models.ResourceSchedule
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("resource_id = ?", resourceID).
		Order("day_of_week ASC, created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateSchedule(ctx context.Context, schedule *models.ResourceSchedule) error {
	return mapError(s.conn(ctx).Create(schedule).Error)
}

// --------------------------------------------------
// Block
// --------------------------------------------------

func (s *GormStore) GetBlock(
	ctx context.Context,
	businessID uuid.UUID,
	blockID uuid.UUID,
) (*models.ResourceBlock, error) {

	var b models.ResourceBlock
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("id = ? AND business_id = ?", blockID, businessID).
		First(&b).Error; err != nil {
		return nil, notFound(err, resource.ErrBlockNotFound)
	}
	return &b, nil
}

func (s *GormStore) CreateBlock(ctx context.Context, block *models.ResourceBlock) error {
	return mapError(s.conn(ctx).Create(block).Error)
}

func (s *GormStore) UpdateBlock(ctx context.Context, block *models.ResourceBlock) error {
	return mapError(s.conn(ctx).Save(block).Error)
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (s *GormStore) GetService(
	ctx context.Context,
	businessID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, error) {

	var svc models.Service
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, resource.ErrServiceNotFound)
	}
	return &svc, nil
}

func (s *GormStore) ListServices(
	ctx context.Context,
	businessID uuid.UUID,
	activeOnlyServices bool,
) ([]models.Service, error) {

	q := s.conn(ctx).
		Scopes(activeOnly).
		Where("business_id = ?", businessID)

	if activeOnlyServices {
		q = q.Where("active = ?", true)
	}

	var out []models.Service
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateService(ctx context.Context, service *models.Service) error {
	return mapError(s.conn(ctx).Omit("Requirements").Create(service).Error)
}

func (s *GormStore) ListServiceResources(
	ctx context.Context,
	serviceID uuid.UUID,
) ([]models.ServiceResource, error) {

	var out []models.ServiceResource
	if err := s.conn(ctx).
		Scopes(activeOnly).
		Where("service_id = ?", serviceID).
		Order("preference_order ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormStore) CreateServiceResource(ctx context.Context, req *models.ServiceResource) error {
	return mapError(s.conn(ctx).Create(req).Error)
}

var _ resource.Repository = (*GormStore)(nil)
