package schedule

import (
	"time"

	"github.com/salonsuite/salon-scheduler/internal/models"
)

// clockOn projects an "15:04" clock string onto the given day. Returns
// false for malformed strings so callers fail closed.
func clockOn(day time.Time, hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0,
		day.Location(),
	), true
}

// WithinWorkingHours reports whether the candidate range falls entirely
// inside at least one of the weekday's template sub-ranges. An empty or
// malformed template means the staff member is not working that day.
func WithinWorkingHours(subRanges []models.WorkingHours, r TimeRange) bool {
	for _, wh := range subRanges {
		start, ok := clockOn(r.Start, wh.StartTime)
		if !ok {
			continue
		}
		end, ok := clockOn(r.Start, wh.EndTime)
		if !ok {
			continue
		}

		if !r.Start.Before(start) && !r.End.After(end) {
			return true
		}
	}
	return false
}

// SubRangeBounds resolves a template sub-range onto a concrete day.
func SubRangeBounds(day time.Time, wh models.WorkingHours) (TimeRange, bool) {
	start, ok := clockOn(day, wh.StartTime)
	if !ok {
		return TimeRange{}, false
	}
	end, ok := clockOn(day, wh.EndTime)
	if !ok || !end.After(start) {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}
