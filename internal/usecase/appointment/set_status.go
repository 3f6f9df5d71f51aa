package appointment

import (
	"context"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type SetStatus struct {
	repo    domain.Repository
	history *HistorySync
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewSetStatus(
	repo domain.Repository,
	history *HistorySync,
	auditDispatcher *audit.Dispatcher,
	now func() time.Time,
) *SetStatus {
	if now == nil {
		now = time.Now
	}
	return &SetStatus{
		repo:    repo,
		history: history,
		audit:   auditDispatcher,
		now:     now,
	}
}

// Execute sets the appointment status. Any status may follow any other;
// the only gate is authorization. Significant statuses are mirrored into
// the client history ledger.
func (uc *SetStatus) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	status domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment_not_found", "Appointment not found.")
	}

	if err := actor.Authorize(ap); err != nil {
		return nil, err
	}

	domain.ApplyStatus(ap, status, uc.now())

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.Storage("update_appointment_failed", err)
	}

	if status.IsSignificant() {
		if err := uc.history.RecordOrUpdate(ctx, ap, status); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"status": status},
	})

	return ap, nil
}
