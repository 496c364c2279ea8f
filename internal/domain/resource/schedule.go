package resource

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// EffectiveSchedule picks the schedule governing date. A row applies when it
// is active, not deleted, set for date's weekday and its effective range
// brackets date. When several rows apply the most recently created wins.
func EffectiveSchedule(
	schedules []models.ResourceSchedule,
	date time.Time,
) (*models.ResourceSchedule, bool) {

	weekday := calendar.Weekday(date)

	var best *models.ResourceSchedule
	for i := range schedules {
		s := &schedules[i]

		if !s.Active || s.IsDeleted() || s.DayOfWeek != weekday {
			continue
		}
		if s.EffectiveFrom != nil && calendar.DateBefore(date, *s.EffectiveFrom) {
			continue
		}
		if s.EffectiveUntil != nil && calendar.DateBefore(*s.EffectiveUntil, date) {
			continue
		}

		if best == nil || newer(s, best) {
			best = s
		}
	}

	return best, best != nil
}

func newer(a, b *models.ResourceSchedule) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// OpenWindow resolves the effective schedule for date into a concrete
// window in date's location. ok is false when the resource is closed.
func OpenWindow(
	schedules []models.ResourceSchedule,
	date time.Time,
) (calendar.Window, bool, error) {

	s, ok := EffectiveSchedule(schedules, date)
	if !ok {
		return calendar.Window{}, false, nil
	}

	start, err := calendar.ClockOn(date, s.StartTime)
	if err != nil {
		return calendar.Window{}, false, fmt.Errorf("schedule %s: %w", s.ID, err)
	}
	end, err := calendar.ClockOn(date, s.EndTime)
	if err != nil {
		return calendar.Window{}, false, fmt.Errorf("schedule %s: %w", s.ID, err)
	}

	w := calendar.NewWindow(start, end)
	if !w.Valid() {
		return calendar.Window{}, false, nil
	}
	return w, true, nil
}
