package availability

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/domain/conflict"
	"github.com/BruksfildServices01/booking-engine/internal/domain/resource"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type UtilizationInput struct {
	BusinessID uuid.UUID
	ResourceID uuid.UUID
	From       time.Time
	To         time.Time
}

type Utilization struct {
	Percentage    float64 `json:"percentage"`
	BookedMinutes int     `json:"booked_minutes"`
	OpenMinutes   int     `json:"open_minutes"`
}

type GetUtilization struct {
	businesses BusinessLookup
	resources  resource.Repository
	directory  *resource.Directory
	detector   *conflict.Detector
}

func NewGetUtilization(
	businesses BusinessLookup,
	resources resource.Repository,
	detector *conflict.Detector,
) *GetUtilization {
	return &GetUtilization{
		businesses: businesses,
		resources:  resources,
		directory:  resource.NewDirectory(resources),
		detector:   detector,
	}
}

// Execute divides booked minutes by open minutes over [From, To). Booked
// minutes come from confirmed, in-progress and completed allocations
// clipped to the period; open minutes are scaled by the resource capacity.
// The result is clamped to [0, 100] and is 0 when nothing was open.
func (uc *GetUtilization) Execute(
	ctx context.Context,
	in UtilizationInput,
) (*Utilization, error) {

	period := calendar.NewWindow(in.From, in.To)
	if !period.Valid() {
		return nil, httperr.ErrValidation("end", "must be after start")
	}

	business, err := uc.businesses.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, err
	}
	loc := locationOf(business)

	res, err := uc.resources.GetResource(ctx, in.BusinessID, in.ResourceID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Open minutes
	// --------------------------------------------------
	windows, err := uc.directory.OpenWindowsBetween(ctx, *res, in.From.In(loc), in.To.In(loc))
	if err != nil {
		return nil, err
	}

	open := 0
	for _, w := range windows {
		open += w.Minutes()
	}

	out := &Utilization{OpenMinutes: open}
	if open == 0 {
		return out, nil
	}

	// --------------------------------------------------
	// Booked minutes
	// --------------------------------------------------
	tls, err := uc.detector.Timelines(ctx, []models.Resource{*res}, period)
	if err != nil {
		return nil, err
	}

	booked := 0
	for _, a := range tls[res.ID].Allocations {
		if !appointment.Status(a.AppointmentStatus).CountsAsBooked() {
			continue
		}
		if clipped, ok := calendar.NewWindow(a.AllocatedStart, a.AllocatedEnd).Intersect(period); ok {
			booked += clipped.Minutes()
		}
	}
	out.BookedMinutes = booked

	capacity := max(res.Capacity, 1)
	pct := float64(booked) / float64(open*capacity) * 100
	out.Percentage = min(max(pct, 0), 100)

	return out, nil
}
