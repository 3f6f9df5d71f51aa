package appointment

import (
	"context"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: auditDispatcher}
}

// Execute deletes the appointment and its history rows. The deleted
// appointment and the count of removed history rows are returned so the
// caller can report and invalidate the freed slot.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
) (*models.Appointment, int64, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, 0, notFoundOr(err, "appointment_not_found", "Appointment not found.")
	}

	if err := actor.Authorize(ap); err != nil {
		return nil, 0, err
	}

	removed, err := uc.repo.DeleteAppointmentCascade(ctx, ap.ID)
	if err != nil {
		return nil, 0, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_deleted",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"history_rows_removed": removed},
	})

	return ap, removed, nil
}
