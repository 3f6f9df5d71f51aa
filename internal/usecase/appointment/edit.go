package appointment

import (
	"context"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// EditAppointmentInput carries a full edit. Nil pointers mean "leave as is".
type EditAppointmentInput struct {
	ServiceID *uint
	StaffID   *uint
	Start     *time.Time
	Notes     *string
}

// ======================================================
// USE CASE
// ======================================================

type EditAppointment struct {
	repo          domain.Repository
	history       *HistorySync
	audit         *audit.Dispatcher
	maxConcurrent int
}

func NewEditAppointment(
	repo domain.Repository,
	history *HistorySync,
	auditDispatcher *audit.Dispatcher,
	maxConcurrent int,
) *EditAppointment {
	if maxConcurrent <= 0 {
		maxConcurrent = domain.DefaultMaxConcurrent
	}
	return &EditAppointment{
		repo:          repo,
		history:       history,
		audit:         auditDispatcher,
		maxConcurrent: maxConcurrent,
	}
}

// Execute applies a field edit. Changes touching the bookable range
// (service, staff, start) are re-validated like a fresh booking, excluding
// the appointment itself. Afterwards an existing history row is refreshed
// unconditionally so the ledger never drifts from a corrected booking.
// The staff id the appointment held before the edit is returned so the
// caller can invalidate the previous calendar when the edit moved it.
func (uc *EditAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	in EditAppointmentInput,
) (*models.Appointment, uint, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, 0, notFoundOr(err, "appointment_not_found", "Appointment not found.")
	}

	if err := actor.Authorize(ap); err != nil {
		return nil, 0, err
	}

	prevStaffID := ap.StaffID
	rangeChanged := false

	if in.StaffID != nil && *in.StaffID != ap.StaffID {
		if _, err := uc.repo.GetStaff(ctx, *in.StaffID); err != nil {
			return nil, 0, notFoundOr(err, "staff_not_found", "Staff member not found.")
		}
		ap.StaffID = *in.StaffID
		rangeChanged = true
	}

	duration := ap.EndTime.Sub(ap.StartTime)

	if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
		svc, err := uc.repo.GetService(ctx, *in.ServiceID)
		if err != nil {
			return nil, 0, notFoundOr(err, "service_not_found", "Service not found.")
		}
		if svc.DurationMin < models.MinServiceDurationMin {
			return nil, 0, httperr.Validation("invalid_duration", "Service duration must be at least 5 minutes.")
		}
		ap.ServiceID = *in.ServiceID
		duration = time.Duration(svc.DurationMin) * time.Minute
		rangeChanged = true
	}

	start := ap.StartTime
	if in.Start != nil && !in.Start.Equal(ap.StartTime) {
		start = *in.Start
		rangeChanged = true
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	if rangeChanged {
		rng, err := domain.NewTimeRange(start, start.Add(duration))
		if err != nil {
			return nil, 0, err
		}
		if err := assertBookable(ctx, uc.repo, ap.StaffID, rng); err != nil {
			return nil, 0, err
		}

		ap.StartTime = rng.Start
		ap.EndTime = rng.End

		if err := uc.repo.SaveAppointmentChecked(ctx, ap, uc.maxConcurrent); err != nil {
			return nil, 0, err
		}
	} else {
		if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
			return nil, 0, httperr.Storage("update_appointment_failed", err)
		}
	}

	if err := uc.history.Refresh(ctx, ap); err != nil {
		return nil, 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_updated",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, prevStaffID, nil
}
