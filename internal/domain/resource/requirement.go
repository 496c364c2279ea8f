package resource

import (
	"bytes"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// Requirement is one line of what a service consumes.
type Requirement struct {
	ID              uuid.UUID
	ResourceID      *uuid.UUID
	ResourceType    Type
	Preferred       []uuid.UUID
	Quantity        int
	Required        bool
	PreferenceOrder int
	Setup           time.Duration
	Cleanup         time.Duration
}

// Specific reports whether the requirement names one resource rather than
// a pool of a given type.
func (r Requirement) Specific() bool {
	return r.ResourceID != nil
}

// Window is the buffered allocation window for an appointment starting at
// start and lasting d.
func (r Requirement) Window(start time.Time, d time.Duration) calendar.Window {
	return calendar.NewWindow(start, start.Add(d)).Extend(r.Setup, r.Cleanup)
}

// Requirements converts service rows into requirements ordered by
// preference, with the service buffer appended to every cleanup.
func Requirements(service *models.Service, rows []models.ServiceResource) []Requirement {
	out := make([]Requirement, 0, len(rows))
	for _, row := range rows {
		if row.IsDeleted() {
			continue
		}

		qty := row.Quantity
		if qty < 1 {
			qty = 1
		}

		out = append(out, Requirement{
			ID:              row.ID,
			ResourceID:      row.ResourceID,
			ResourceType:    Type(row.ResourceType),
			Preferred:       row.PreferredResourceIDs,
			Quantity:        qty,
			Required:        row.IsRequired,
			PreferenceOrder: row.PreferenceOrder,
			Setup:           time.Duration(row.SetupMinutes) * time.Minute,
			Cleanup:         time.Duration(row.CleanupMinutes+service.BufferMinutes) * time.Minute,
		})
	}

	slices.SortStableFunc(out, func(a, b Requirement) int {
		if a.PreferenceOrder != b.PreferenceOrder {
			return a.PreferenceOrder - b.PreferenceOrder
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	return out
}

// MaxBuffers returns the largest setup and cleanup across reqs.
func MaxBuffers(reqs []Requirement) (setup, cleanup time.Duration) {
	for _, r := range reqs {
		setup = max(setup, r.Setup)
		cleanup = max(cleanup, r.Cleanup)
	}
	return setup, cleanup
}
