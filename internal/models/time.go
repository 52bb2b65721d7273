package models

import (
	"time"

	appErrors "github.com/hoffmv/shipmate-ai/pkg/errors"
)

// eventTimeLayouts are the timestamp forms accepted at the ingress boundary.
// Upstream feeds emit both zoned RFC3339 and naive local timestamps.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseEventTime converts an ISO-8601 timestamp string into the canonical
// time.Time representation. Parsing happens once at the boundary; everything
// downstream works on time.Time only.
func ParseEventTime(raw string) (time.Time, error) {
	for _, layout := range eventTimeLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "invalid timestamp: "+raw)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}
	return t, nil
}

// SameOrBetweenDates reports whether target falls on or between the calendar
// dates of start and end, ignoring time of day.
func SameOrBetweenDates(start, end, target time.Time) bool {
	s := StartOfDay(start)
	e := StartOfDay(end)
	d := StartOfDay(target)
	return !d.Before(s) && !d.After(e)
}

// StartOfDay truncates a timestamp to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
