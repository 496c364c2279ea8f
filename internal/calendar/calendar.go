// Package calendar holds the pure time arithmetic used by the availability
// engine and the booking transaction. Every value entering this package must
// already be expressed in the business timezone.
package calendar

import (
	"fmt"
	"iter"
	"time"
)

const (
	DefaultGranularity = 30 * time.Minute

	clockLayout = "15:04"
	dateLayout  = "2006-01-02"
)

// ======================================================
// WINDOW
// ======================================================

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	if !w.Valid() {
		return 0
	}
	return w.End.Sub(w.Start)
}

func (w Window) Minutes() int {
	return int(w.Duration() / time.Minute)
}

// Contains reports whether o lies entirely inside w.
func (w Window) Contains(o Window) bool {
	return !o.Start.Before(w.Start) && !o.End.After(w.End)
}

func (w Window) Overlaps(o Window) bool {
	return Overlaps(w.Start, w.End, o.Start, o.End)
}

func (w Window) Intersect(o Window) (Window, bool) {
	out := Window{Start: maxTime(w.Start, o.Start), End: minTime(w.End, o.End)}
	if !out.Valid() {
		return Window{}, false
	}
	return out, true
}

// Extend widens the window by before on the left and after on the right.
func (w Window) Extend(before, after time.Duration) Window {
	return Window{Start: w.Start.Add(-before), End: w.End.Add(after)}
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// ======================================================
// INTERVALS
// ======================================================

// Overlaps is true iff aStart < bEnd and bStart < aEnd. Touching intervals
// do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Slots yields candidate start times from window.Start every step while
// start+duration still fits in the window. Each call to the returned
// sequence restarts from the beginning.
func Slots(window Window, duration, step time.Duration) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if duration <= 0 || step <= 0 {
			return
		}
		for cur := window.Start; !cur.Add(duration).After(window.End); cur = cur.Add(step) {
			if !yield(cur) {
				return
			}
		}
	}
}

func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// ======================================================
// DAYS
// ======================================================

// Weekday returns the day index with Monday = 0 and Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func NextDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// Days yields the start of every calendar day touched by [from, to).
func Days(from, to time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for day := StartOfDay(from); day.Before(to); day = NextDay(day) {
			if !yield(day) {
				return
			}
		}
	}
}

// DateBefore reports whether a's calendar date is strictly before b's.
func DateBefore(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ======================================================
// CLOCK
// ======================================================

// ParseClock parses "HH:MM". "24:00" is accepted as the end of the day.
func ParseClock(hm string) (hour, minute int, err error) {
	if hm == "24:00" {
		return 24, 0, nil
	}
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ClockOn places an "HH:MM" clock on date's calendar day in date's location.
func ClockOn(date time.Time, hm string) (time.Time, error) {
	h, m, err := ParseClock(hm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location()), nil
}

// ClockMinutes converts "HH:MM" to minutes since midnight.
func ClockMinutes(hm string) (int, error) {
	h, m, err := ParseClock(hm)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
