package conflict

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/httperr"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Store reads the commitments of resources over a window. Both lists are
// restricted to rows overlapping [start, end).
type Store interface {
	ListBlocks(
		ctx context.Context,
		resourceIDs []uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.ResourceBlock, error)

	// ListAllocations returns allocations of non-deleted appointments with
	// AppointmentStatus and AppointmentReference filled in.
	ListAllocations(
		ctx context.Context,
		resourceIDs []uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]models.AppointmentResource, error)
}

type Detector struct {
	store Store
}

func NewDetector(store Store) *Detector {
	return &Detector{store: store}
}

// Timelines loads the commitments of every resource over span in two
// queries.
func (d *Detector) Timelines(
	ctx context.Context,
	resources []models.Resource,
	span calendar.Window,
) (map[uuid.UUID]*Timeline, error) {

	out := make(map[uuid.UUID]*Timeline, len(resources))
	if len(resources) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(resources))
	for _, r := range resources {
		ids = append(ids, r.ID)
	}

	blocks, err := d.store.ListBlocks(ctx, ids, span.Start, span.End)
	if err != nil {
		return nil, err
	}
	allocations, err := d.store.ListAllocations(ctx, ids, span.Start, span.End)
	if err != nil {
		return nil, err
	}

	for _, r := range resources {
		out[r.ID] = NewTimeline(r, blocks, allocations)
	}
	return out, nil
}

func (d *Detector) timeline(
	ctx context.Context,
	res models.Resource,
	start time.Time,
	end time.Time,
) (*Timeline, calendar.Window, error) {

	w := calendar.NewWindow(start, end)
	if !w.Valid() {
		return nil, w, httperr.ErrValidation("end", "must be after start")
	}

	tls, err := d.Timelines(ctx, []models.Resource{res}, w)
	if err != nil {
		return nil, w, err
	}
	return tls[res.ID], w, nil
}

// HasConflict reports whether res cannot take one more allocation over
// [start, end).
func (d *Detector) HasConflict(
	ctx context.Context,
	res models.Resource,
	start time.Time,
	end time.Time,
) (bool, error) {

	tl, w, err := d.timeline(ctx, res, start, end)
	if err != nil {
		return false, err
	}
	return tl.HasConflict(w), nil
}

// ListConflicts returns the overlapping commitments of res for diagnostics.
func (d *Detector) ListConflicts(
	ctx context.Context,
	res models.Resource,
	start time.Time,
	end time.Time,
) ([]Conflict, error) {

	tl, w, err := d.timeline(ctx, res, start, end)
	if err != nil {
		return nil, err
	}
	return tl.Conflicts(w), nil
}
