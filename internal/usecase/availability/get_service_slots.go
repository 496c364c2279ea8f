package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/domain/allocation"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
)

type ServiceSlotsInput struct {
	BusinessID uuid.UUID
	ServiceID  uuid.UUID
	Date       time.Time
}

type ServiceAvailability struct {
	Available bool   `json:"available"`
	Slots     []Slot `json:"slots"`
}

// ServiceSlotFinder is satisfied by GetServiceSlots and by the cache that
// wraps it.
type ServiceSlotFinder interface {
	Execute(ctx context.Context, in ServiceSlotsInput) (*ServiceAvailability, error)
}

type GetServiceSlots struct {
	businesses BusinessLookup
	directory  *resource.Directory
	engine     engine
}

func NewGetServiceSlots(
	businesses BusinessLookup,
	resources resource.Repository,
	detector *conflict.Detector,
	step time.Duration,
) *GetServiceSlots {
	dir := resource.NewDirectory(resources)
	return &GetServiceSlots{
		businesses: businesses,
		directory:  dir,
		engine:     newEngine(dir, detector, step),
	}
}

// Execute lists the starts at which every required resource of the service
// is open for the same appointment window and free over its buffered one.
func (uc *GetServiceSlots) Execute(
	ctx context.Context,
	in ServiceSlotsInput,
) (*ServiceAvailability, error) {

	empty := &ServiceAvailability{Slots: []Slot{}}

	// --------------------------------------------------
	// 1. Business day
	// --------------------------------------------------
	business, err := uc.businesses.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	day := businessDay(business, in.Date)

	// --------------------------------------------------
	// 2. Requirements and candidates
	// --------------------------------------------------
	service, reqs, err := uc.directory.RequiredResources(ctx, in.BusinessID, in.ServiceID)
	if errors.Is(err, resource.ErrServiceInactive) {
		return empty, nil
	}
	if err != nil {
		return nil, err
	}

	options, err := allocation.Options(ctx, uc.directory, in.BusinessID, reqs, nil)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3. Plan every candidate start
	// --------------------------------------------------
	d := time.Duration(service.DurationMinutes) * time.Minute

	starts, err := uc.engine.plan(ctx, options, day, d)
	if err != nil {
		return nil, err
	}

	out := &ServiceAvailability{
		Available: len(starts) > 0,
		Slots:     make([]Slot, 0, len(starts)),
	}
	for _, s := range starts {
		out.Slots = append(out.Slots, Slot{Start: s, End: s.Add(d)})
	}
	return out, nil
}

var _ ServiceSlotFinder = (*GetServiceSlots)(nil)
