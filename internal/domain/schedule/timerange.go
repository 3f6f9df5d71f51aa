package schedule

import (
	"time"

	"github.com/salonsuite/salon-scheduler/internal/httperr"
)

// TimeRange is a half-open interval [Start, End). Half-open math keeps
// back-to-back appointments from reading as overlapping.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	r := TimeRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return TimeRange{}, err
	}
	return r, nil
}

func (r TimeRange) Validate() error {
	if !r.End.After(r.Start) {
		return httperr.Validation("invalid_time_range", "End must be after start.")
	}
	return nil
}

func (r TimeRange) Overlaps(o TimeRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}
