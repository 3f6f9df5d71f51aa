package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ClientID  uint
	ServiceID uint
	StaffID   uint
	Start     time.Time
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo          domain.Repository
	audit         *audit.Dispatcher
	maxConcurrent int
}

func NewCreateAppointment(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	maxConcurrent int,
) *CreateAppointment {
	if maxConcurrent <= 0 {
		maxConcurrent = domain.DefaultMaxConcurrent
	}
	return &CreateAppointment{
		repo:          repo,
		audit:         auditDispatcher,
		maxConcurrent: maxConcurrent,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if in.ClientID == 0 {
		return nil, httperr.Validation("missing_client", "Client is required.")
	}
	if in.ServiceID == 0 {
		return nil, httperr.Validation("missing_service", "Service is required.")
	}
	if in.StaffID == 0 {
		return nil, httperr.Validation("missing_staff", "Staff member is required.")
	}
	if in.Start.IsZero() {
		return nil, httperr.Validation("missing_start_time", "Start time is required.")
	}

	if _, err := uc.repo.GetClient(ctx, in.ClientID); err != nil {
		return nil, notFoundOr(err, "client_not_found", "Client not found.")
	}

	svc, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFoundOr(err, "service_not_found", "Service not found.")
	}
	if svc.DurationMin < models.MinServiceDurationMin {
		return nil, httperr.Validation("invalid_duration", "Service duration must be at least 5 minutes.")
	}

	if _, err := uc.repo.GetStaff(ctx, in.StaffID); err != nil {
		return nil, notFoundOr(err, "staff_not_found", "Staff member not found.")
	}

	rng, err := domain.NewTimeRange(
		in.Start,
		in.Start.Add(time.Duration(svc.DurationMin)*time.Minute),
	)
	if err != nil {
		return nil, err
	}

	if err := assertBookable(ctx, uc.repo, in.StaffID, rng); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ClientID:         in.ClientID,
		ServiceID:        in.ServiceID,
		StaffID:          in.StaffID,
		StartTime:        rng.Start,
		EndTime:          rng.End,
		Status:           string(domain.InitialStatus()),
		Confirmation:     models.ConfirmationUnsent,
		ConfirmationCode: uuid.NewString(),
		Notes:            in.Notes,
	}

	if err := uc.repo.CreateAppointmentChecked(ctx, ap, uc.maxConcurrent); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

// notFoundOr maps a gorm record-not-found onto a domain not-found error and
// passes everything else through as storage failure.
func notFoundOr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code, message)
	}
	return httperr.Storage("lookup_failed", err)
}
