package appointment

import (
	"context"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
)

// assertBookable runs the availability-side conflict checks: weekly
// template, then blockouts. The max-concurrency check runs later, inside
// the repository's locked write, so it is race-free.
func assertBookable(
	ctx context.Context,
	repo domain.Repository,
	staffID uint,
	rng domain.TimeRange,
) error {

	hours, err := repo.ListWorkingHours(ctx, staffID, int(rng.Start.Weekday()))
	if err != nil {
		return httperr.Storage("working_hours_lookup_failed", err)
	}

	if !domain.WithinWorkingHours(hours, rng) {
		return httperr.Conflict("outside_working_hours", "Outside working hours.")
	}

	blocked, err := repo.HasBlockoutOverlap(ctx, staffID, rng)
	if err != nil {
		return httperr.Storage("blockout_lookup_failed", err)
	}
	if blocked {
		return httperr.Conflict("blockout_overlap", "Overlaps staff blockout.")
	}

	return nil
}
