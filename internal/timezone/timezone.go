package timezone

import (
	"time"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
)

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to DefaultTimezone when it is unknown.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(DefaultTimezone))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate reads "YYYY-MM-DD" as midnight in tz.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

// ParseDateTime reads a "YYYY-MM-DD" date and an "HH:MM" clock in tz.
func ParseDateTime(tz, date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, Location(tz))
}

// ParseInstant accepts RFC 3339 or a naive "YYYY-MM-DDTHH:MM" read in tz.
func ParseInstant(tz, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(Location(tz)), nil
	}
	return time.ParseInLocation("2006-01-02T15:04", value, Location(tz))
}

// DayIn returns the start of t's calendar day in tz.
func DayIn(tz string, t time.Time) time.Time {
	return calendar.StartOfDay(t.In(Location(tz)))
}
