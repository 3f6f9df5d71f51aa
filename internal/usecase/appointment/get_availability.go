package appointment

import (
	"context"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/cache"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type GetAvailability struct {
	repo          domain.Repository
	cache         *cache.Availability
	maxConcurrent int
}

func NewGetAvailability(
	repo domain.Repository,
	availabilityCache *cache.Availability,
	maxConcurrent int,
) *GetAvailability {
	if maxConcurrent <= 0 {
		maxConcurrent = domain.DefaultMaxConcurrent
	}
	return &GetAvailability{
		repo:          repo,
		cache:         availabilityCache,
		maxConcurrent: maxConcurrent,
	}
}

// Execute derives the bookable slots for one staff member and day: the
// weekly template's sub-ranges, stepped by the service duration, minus
// blockouts and slots already at the concurrency cap.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	dateKey := in.Date.Format("2006-01-02")
	if slots, ok := uc.cache.Get(ctx, in.StaffID, dateKey, in.ServiceID); ok {
		return slots, nil
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFoundOr(err, "service_not_found", "Service not found.")
	}
	if svc.DurationMin < models.MinServiceDurationMin {
		return nil, httperr.Validation("invalid_duration", "Service duration must be at least 5 minutes.")
	}

	weekday := int(in.Date.Weekday())
	hours, err := uc.repo.ListWorkingHours(ctx, in.StaffID, weekday)
	if err != nil {
		return nil, httperr.Storage("working_hours_lookup_failed", err)
	}
	if len(hours) == 0 {
		return []domain.TimeSlot{}, nil
	}

	loc := in.Date.Location()
	dayStart := time.Date(in.Date.Year(), in.Date.Month(), in.Date.Day(), 0, 0, 0, 0, loc)
	day := domain.TimeRange{Start: dayStart, End: dayStart.Add(24 * time.Hour)}

	blockouts, err := uc.repo.ListBlockoutsForRange(ctx, in.StaffID, day)
	if err != nil {
		return nil, httperr.Storage("blockout_lookup_failed", err)
	}

	appointments, err := uc.repo.ListAppointmentsForDay(ctx, in.StaffID, day)
	if err != nil {
		return nil, httperr.Storage("appointment_lookup_failed", err)
	}

	slotDuration := time.Duration(svc.DurationMin) * time.Minute
	slots := []domain.TimeSlot{}

	for _, wh := range hours {
		bounds, ok := domain.SubRangeBounds(dayStart, wh)
		if !ok {
			continue
		}

		for cur := bounds.Start; !cur.Add(slotDuration).After(bounds.End); cur = cur.Add(slotDuration) {
			slot := domain.TimeRange{Start: cur, End: cur.Add(slotDuration)}

			if domain.OverlapsBlockout(blockouts, slot) {
				continue
			}
			if domain.CountOverlapping(appointments, slot, 0) >= uc.maxConcurrent {
				continue
			}

			slots = append(slots, domain.TimeSlot{
				Start: slot.Start.Format("15:04"),
				End:   slot.End.Format("15:04"),
			})
		}
	}

	uc.cache.Set(ctx, in.StaffID, dateKey, in.ServiceID, slots)

	return slots, nil
}
