package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type ResourceSlotsInput struct {
	BusinessID      uuid.UUID
	ResourceID      uuid.UUID
	Date            time.Time
	DurationMinutes int
}

// ======================================================
// USE CASE
// ======================================================

type GetResourceSlots struct {
	businesses BusinessLookup
	resources  resource.Repository
	engine     engine
}

func NewGetResourceSlots(
	businesses BusinessLookup,
	resources resource.Repository,
	detector *conflict.Detector,
	step time.Duration,
) *GetResourceSlots {
	return &GetResourceSlots{
		businesses: businesses,
		resources:  resources,
		engine:     newEngine(resource.NewDirectory(resources), detector, step),
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute returns the free start times of one resource on the business
// day containing in.Date. A closed day or inactive resource yields an empty
// list.
func (uc *GetResourceSlots) Execute(
	ctx context.Context,
	in ResourceSlotsInput,
) ([]time.Time, error) {

	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrValidation("duration_minutes", "must be positive")
	}

	business, err := uc.businesses.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	res, err := uc.resources.GetResource(ctx, in.BusinessID, in.ResourceID)
	if err != nil {
		return nil, err
	}

	return uc.forDay(ctx, *res, businessDay(business, in.Date), in.DurationMinutes)
}

func (uc *GetResourceSlots) forDay(
	ctx context.Context,
	res models.Resource,
	day time.Time,
	durationMinutes int,
) ([]time.Time, error) {

	slots, err := uc.engine.plan(
		ctx,
		singleResource(res),
		day,
		time.Duration(durationMinutes)*time.Minute,
	)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []time.Time{}
	}
	return slots, nil
}

func locationOf(b *models.Business) *time.Location {
	return timezone.Location(b.Timezone)
}
