package appointment

import (
	"context"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type SetConfirmation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetConfirmation(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *SetConfirmation {
	return &SetConfirmation{repo: repo, audit: auditDispatcher}
}

// Execute flips the confirmation flag. Confirmation is independent of
// lifecycle status.
func (uc *SetConfirmation) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	sent bool,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, notFoundOr(err, "appointment_not_found", "Appointment not found.")
	}

	if err := actor.Authorize(ap); err != nil {
		return nil, err
	}

	if sent {
		ap.Confirmation = models.ConfirmationSent
	} else {
		ap.Confirmation = models.ConfirmationUnsent
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, httperr.Storage("update_appointment_failed", err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_confirmation_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"confirmation": ap.Confirmation},
	})

	return ap, nil
}
