package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

type NextSlotInput struct {
	BusinessID      uuid.UUID
	ResourceID      uuid.UUID
	DurationMinutes int
	From            time.Time
	HorizonDays     int
}

type GetNextAvailableSlot struct {
	slots          *GetResourceSlots
	defaultHorizon int
}

func NewGetNextAvailableSlot(
	businesses BusinessLookup,
	resources resource.Repository,
	detector *conflict.Detector,
	step time.Duration,
	defaultHorizon int,
) *GetNextAvailableSlot {
	if defaultHorizon <= 0 {
		defaultHorizon = DefaultHorizonDays
	}
	return &GetNextAvailableSlot{
		slots:          NewGetResourceSlots(businesses, resources, detector, step),
		defaultHorizon: defaultHorizon,
	}
}

// Execute scans the days [From, From+HorizonDays) in business time and
// returns the first free slot starting at or after From. Exhausting the
// horizon returns nil without error.
func (uc *GetNextAvailableSlot) Execute(
	ctx context.Context,
	in NextSlotInput,
) (*Slot, error) {

	if in.DurationMinutes <= 0 {
		return nil, httperr.ErrValidation("duration_minutes", "must be positive")
	}

	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = uc.defaultHorizon
	}
	if horizon > MaxHorizonDays {
		return nil, httperr.ErrValidation("horizon_days", "must not exceed 366")
	}

	business, err := uc.slots.businesses.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}

	res, err := uc.slots.resources.GetResource(ctx, in.BusinessID, in.ResourceID)
	if err != nil {
		return nil, err
	}

	d := time.Duration(in.DurationMinutes) * time.Minute
	from := in.From.In(locationOf(business))
	day := calendar.StartOfDay(from)

	for range horizon {
		starts, err := uc.slots.forDay(ctx, *res, day, in.DurationMinutes)
		if err != nil {
			return nil, err
		}

		for _, s := range starts {
			if !s.Before(from) {
				return &Slot{Start: s, End: s.Add(d)}, nil
			}
		}

		day = calendar.NextDay(day)
	}

	return nil, nil
}
