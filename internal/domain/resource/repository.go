package resource

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// ListFilter narrows ListResources. Soft-deleted rows are never returned;
// ActiveOnly additionally drops deactivated resources.
type ListFilter struct {
	ActiveOnly bool
	Type       Type
}

type Repository interface {
	// -------- Resource --------
	GetResource(
		ctx context.Context,
		businessID uuid.UUID,
		resourceID uuid.UUID,
	) (*models.Resource, error)

	ListResources(
		ctx context.Context,
		businessID uuid.UUID,
		filter ListFilter,
	) ([]models.Resource, error)

	CreateResource(
		ctx context.Context,
		res *models.Resource,
	) error

	UpdateResource(
		ctx context.Context,
		res *models.Resource,
	) error

	// -------- Schedule --------
	ListSchedules(
		ctx context.Context,
		resourceID uuid.UUID,
	) ([]models.ResourceSchedule, error)

	CreateSchedule(
		ctx context.Context,
		schedule *models.ResourceSchedule,
	) error

	// -------- Block --------
	GetBlock(
		ctx context.Context,
		businessID uuid.UUID,
		blockID uuid.UUID,
	) (*models.ResourceBlock, error)

	CreateBlock(
		ctx context.Context,
		block *models.ResourceBlock,
	) error

	UpdateBlock(
		ctx context.Context,
		block *models.ResourceBlock,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uuid.UUID,
		serviceID uuid.UUID,
	) (*models.Service, error)

	ListServices(
		ctx context.Context,
		businessID uuid.UUID,
		activeOnly bool,
	) ([]models.Service, error)

	CreateService(
		ctx context.Context,
		service *models.Service,
	) error

	ListServiceResources(
		ctx context.Context,
		serviceID uuid.UUID,
	) ([]models.ServiceResource, error)

	CreateServiceResource(
		ctx context.Context,
		req *models.ServiceResource,
	) error
}
