package resource

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Directory answers which resources a service needs and when each of them
// is open.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// EffectiveSchedule returns the open window of resourceID on date.
func (d *Directory) EffectiveSchedule(
	ctx context.Context,
	resourceID uuid.UUID,
	date time.Time,
) (calendar.Window, bool, error) {

	schedules, err := d.repo.ListSchedules(ctx, resourceID)
	if err != nil {
		return calendar.Window{}, false, err
	}
	return OpenWindow(schedules, date)
}

// OpenWindows resolves the open window of every active resource on date.
// Closed and inactive resources are absent from the result.
func (d *Directory) OpenWindows(
	ctx context.Context,
	resources []models.Resource,
	date time.Time,
) (map[uuid.UUID]calendar.Window, error) {

	out := make(map[uuid.UUID]calendar.Window, len(resources))
	for _, res := range resources {
		if !res.Active || res.IsDeleted() {
			continue
		}
		if _, seen := out[res.ID]; seen {
			continue
		}

		w, ok, err := d.EffectiveSchedule(ctx, res.ID, date)
		if err != nil {
			return nil, err
		}
		if ok {
			out[res.ID] = w
		}
	}
	return out, nil
}

// RequiredResources loads an active service and its requirements.
func (d *Directory) RequiredResources(
	ctx context.Context,
	businessID uuid.UUID,
	serviceID uuid.UUID,
) (*models.Service, []Requirement, error) {

	service, err := d.repo.GetService(ctx, businessID, serviceID)
	if err != nil {
		return nil, nil, err
	}
	if !service.Active || service.IsDeleted() {
		return nil, nil, ErrServiceInactive
	}

	rows, err := d.repo.ListServiceResources(ctx, service.ID)
	if err != nil {
		return nil, nil, err
	}

	return service, Requirements(service, rows), nil
}

// Candidates lists the active resources able to satisfy req. A pool is
// ordered by the caller's requested resources, then the requirement's
// preferred members, then name.
func (d *Directory) Candidates(
	ctx context.Context,
	businessID uuid.UUID,
	req Requirement,
	requested []uuid.UUID,
) ([]models.Resource, error) {

	if req.Specific() {
		res, err := d.repo.GetResource(ctx, businessID, *req.ResourceID)
		if errors.Is(err, ErrResourceNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if !res.Active {
			return nil, nil
		}
		return []models.Resource{*res}, nil
	}

	pool, err := d.repo.ListResources(ctx, businessID, ListFilter{
		ActiveOnly: true,
		Type:       req.ResourceType,
	})
	if err != nil {
		return nil, err
	}

	rank := func(r models.Resource) int {
		if i := slices.Index(requested, r.ID); i >= 0 {
			return i
		}
		if i := slices.Index(req.Preferred, r.ID); i >= 0 {
			return len(requested) + i
		}
		return len(requested) + len(req.Preferred)
	}

	slices.SortStableFunc(pool, func(a, b models.Resource) int {
		return cmp.Compare(rank(a), rank(b))
	})
	return pool, nil
}

// OpenWindowsBetween lists the open windows of res on every day touched by
// [from, to), clipped to that period. Days are taken in from's location.
func (d *Directory) OpenWindowsBetween(
	ctx context.Context,
	res models.Resource,
	from time.Time,
	to time.Time,
) ([]calendar.Window, error) {

	if !res.Active || res.IsDeleted() {
		return nil, nil
	}

	schedules, err := d.repo.ListSchedules(ctx, res.ID)
	if err != nil {
		return nil, err
	}

	period := calendar.NewWindow(from, to)

	var out []calendar.Window
	for day := range calendar.Days(from, to) {
		w, ok, err := OpenWindow(schedules, day)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if clipped, ok := w.Intersect(period); ok {
			out = append(out, clipped)
		}
	}
	return out, nil
}
