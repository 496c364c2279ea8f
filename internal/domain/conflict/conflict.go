package conflict

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

type Kind string

const (
	KindAppointment Kind = "appointment"
	KindBlock       Kind = "block"
)

// Conflict describes one commitment overlapping a queried window.
type Conflict struct {
	Kind          Kind       `json:"type"`
	Start         time.Time  `json:"start"`
	End           time.Time  `json:"end"`
	Description   string     `json:"description"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	BlockID       *uuid.UUID `json:"block_id,omitempty"`
}

// Timeline is everything known about one resource's commitments over a
// span. Allocations held by cancelled or no-show appointments are dropped
// when the timeline is built.
type Timeline struct {
	ResourceID  uuid.UUID
	Capacity    int
	Blocks      []models.ResourceBlock
	Allocations []models.AppointmentResource
}

// NewTimeline keeps the live blocks and the allocations that still hold
// the resource.
func NewTimeline(
	res models.Resource,
	blocks []models.ResourceBlock,
	allocations []models.AppointmentResource,
) *Timeline {

	capacity := res.Capacity
	if capacity < 1 {
		capacity = 1
	}

	tl := &Timeline{ResourceID: res.ID, Capacity: capacity}

	for _, b := range blocks {
		if b.ResourceID == res.ID && !b.IsDeleted() {
			tl.Blocks = append(tl.Blocks, b)
		}
	}
	for _, a := range allocations {
		if a.ResourceID == res.ID && appointment.Status(a.AppointmentStatus).HoldsResources() {
			tl.Allocations = append(tl.Allocations, a)
		}
	}

	return tl
}

// Blocked reports whether any block overlaps w.
func (t *Timeline) Blocked(w calendar.Window) bool {
	for _, b := range t.Blocks {
		if calendar.Overlaps(b.StartTime, b.EndTime, w.Start, w.End) {
			return true
		}
	}
	return false
}

// FreeUnits is the capacity left over w: zero when blocked, otherwise the
// capacity minus every overlapping allocation.
func (t *Timeline) FreeUnits(w calendar.Window) int {
	if t.Blocked(w) {
		return 0
	}

	used := 0
	for _, a := range t.Allocations {
		if calendar.Overlaps(a.AllocatedStart, a.AllocatedEnd, w.Start, w.End) {
			used++
		}
	}
	return max(t.Capacity-used, 0)
}

func (t *Timeline) HasConflict(w calendar.Window) bool {
	return t.FreeUnits(w) < 1
}

// Conflicts lists every block and allocation overlapping w ordered by start.
func (t *Timeline) Conflicts(w calendar.Window) []Conflict {
	out := []Conflict{}

	for _, a := range t.Allocations {
		if !calendar.Overlaps(a.AllocatedStart, a.AllocatedEnd, w.Start, w.End) {
			continue
		}
		id := a.AppointmentID
		out = append(out, Conflict{
			Kind:          KindAppointment,
			Start:         a.AllocatedStart,
			End:           a.AllocatedEnd,
			Description:   describeAllocation(a),
			AppointmentID: &id,
		})
	}

	for _, b := range t.Blocks {
		if !calendar.Overlaps(b.StartTime, b.EndTime, w.Start, w.End) {
			continue
		}
		id := b.ID
		out = append(out, Conflict{
			Kind:        KindBlock,
			Start:       b.StartTime,
			End:         b.EndTime,
			Description: describeBlock(b),
			BlockID:     &id,
		})
	}

	slices.SortStableFunc(out, func(a, b Conflict) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		if c := a.End.Compare(b.End); c != 0 {
			return c
		}
		return cmp.Compare(a.Kind, b.Kind)
	})

	return out
}

func describeAllocation(a models.AppointmentResource) string {
	if a.AppointmentReference != "" {
		return fmt.Sprintf("Appointment %s (%s)", a.AppointmentReference, a.AppointmentStatus)
	}
	return fmt.Sprintf("Appointment %s (%s)", a.AppointmentID, a.AppointmentStatus)
}

func describeBlock(b models.ResourceBlock) string {
	if b.Reason == "" {
		return b.BlockType
	}
	return fmt.Sprintf("%s: %s", b.BlockType, b.Reason)
}
