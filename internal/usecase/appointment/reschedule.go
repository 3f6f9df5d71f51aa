package appointment

import (
	"context"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type RescheduleAppointment struct {
	repo          domain.Repository
	history       *HistorySync
	audit         *audit.Dispatcher
	maxConcurrent int
}

func NewRescheduleAppointment(
	repo domain.Repository,
	history *HistorySync,
	auditDispatcher *audit.Dispatcher,
	maxConcurrent int,
) *RescheduleAppointment {
	if maxConcurrent <= 0 {
		maxConcurrent = domain.DefaultMaxConcurrent
	}
	return &RescheduleAppointment{
		repo:          repo,
		history:       history,
		audit:         auditDispatcher,
		maxConcurrent: maxConcurrent,
	}
}

// Execute moves an appointment to a new start, keeping the service
// duration. The reschedule passes the same concurrency limit as create,
// with the appointment itself excluded from the overlap set. The status is
// overwritten to "rescheduled".
func (uc *RescheduleAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	newStart time.Time,
) (*models.Appointment, error) {

	if newStart.IsZero() {
		return nil, httperr.Validation("missing_start_time", "New start time is required.")
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment_not_found", "Appointment not found.")
	}

	if err := actor.Authorize(ap); err != nil {
		return nil, err
	}

	duration := ap.EndTime.Sub(ap.StartTime)
	rng, err := domain.NewTimeRange(newStart, newStart.Add(duration))
	if err != nil {
		return nil, err
	}

	if err := assertBookable(ctx, uc.repo, ap.StaffID, rng); err != nil {
		return nil, err
	}

	ap.StartTime = rng.Start
	ap.EndTime = rng.End
	ap.Status = string(domain.StatusRescheduled)

	if err := uc.repo.SaveAppointmentChecked(ctx, ap, uc.maxConcurrent); err != nil {
		return nil, err
	}

	// the ledger mirrors the appointment's date; keep it in step
	if err := uc.history.Refresh(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_rescheduled",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"start": rng.Start, "end": rng.End},
	})

	return ap, nil
}
