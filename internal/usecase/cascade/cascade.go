package cascade

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/salonsuite/salon-scheduler/internal/audit"
	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
)

// Result reports what an ordered cascade removed, per step.
type Result struct {
	HistoryRemoved      int64 `json:"history_removed"`
	AppointmentsRemoved int64 `json:"appointments_removed"`
	BlockoutsRemoved    int64 `json:"blockouts_removed,omitempty"`
	WorkingHoursRemoved int64 `json:"working_hours_removed,omitempty"`
}

// Cascades run ordered: history rows first, then appointments, then
// staff-owned schedule data, then the entity itself. A failed step aborts
// the remainder; the storage error code names the failed step so a partial
// cascade is never silent. History goes before appointments so no ledger
// row can ever point at a vanished appointment.
type Delete struct {
	repo  domain.CascadeRepository
	check domain.Repository
	audit *audit.Dispatcher
}

func NewDelete(
	repo domain.CascadeRepository,
	check domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *Delete {
	return &Delete{repo: repo, check: check, audit: auditDispatcher}
}

func notFoundOr(err error, code, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(code, message)
	}
	return httperr.Storage("lookup_failed", err)
}

// ======================================================
// CLIENT
// ======================================================

func (uc *Delete) Client(
	ctx context.Context,
	actor domain.Actor,
	clientID uint,
) (*Result, error) {

	if _, err := uc.check.GetClient(ctx, clientID); err != nil {
		return nil, notFoundOr(err, "client_not_found", "Client not found.")
	}

	apIDs, err := uc.repo.ListAppointmentIDsByClient(ctx, clientID)
	if err != nil {
		return nil, httperr.Storage("cascade_list_appointments_failed", err)
	}

	res := &Result{}

	if res.HistoryRemoved, err = uc.repo.DeleteHistoryByClient(ctx, clientID, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_history_failed", err)
	}
	if res.AppointmentsRemoved, err = uc.repo.DeleteAppointmentsByIDs(ctx, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_appointments_failed", err)
	}
	if err = uc.repo.DeleteClient(ctx, clientID); err != nil {
		return nil, httperr.Storage("cascade_delete_client_failed", err)
	}

	uc.dispatch(actor, "client_deleted", "client", clientID, res)
	return res, nil
}

// ======================================================
// SERVICE
// ======================================================

func (uc *Delete) Service(
	ctx context.Context,
	actor domain.Actor,
	serviceID uint,
) (*Result, error) {

	if _, err := uc.check.GetService(ctx, serviceID); err != nil {
		return nil, notFoundOr(err, "service_not_found", "Service not found.")
	}

	apIDs, err := uc.repo.ListAppointmentIDsByService(ctx, serviceID)
	if err != nil {
		return nil, httperr.Storage("cascade_list_appointments_failed", err)
	}

	res := &Result{}

	if res.HistoryRemoved, err = uc.repo.DeleteHistoryByService(ctx, serviceID, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_history_failed", err)
	}
	if res.AppointmentsRemoved, err = uc.repo.DeleteAppointmentsByIDs(ctx, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_appointments_failed", err)
	}
	if err = uc.repo.DeleteService(ctx, serviceID); err != nil {
		return nil, httperr.Storage("cascade_delete_service_failed", err)
	}

	uc.dispatch(actor, "service_deleted", "service", serviceID, res)
	return res, nil
}

// ======================================================
// STAFF
// ======================================================

func (uc *Delete) Staff(
	ctx context.Context,
	actor domain.Actor,
	staffID uint,
) (*Result, error) {

	if _, err := uc.check.GetStaff(ctx, staffID); err != nil {
		return nil, notFoundOr(err, "staff_not_found", "Staff member not found.")
	}

	apIDs, err := uc.repo.ListAppointmentIDsByStaff(ctx, staffID)
	if err != nil {
		return nil, httperr.Storage("cascade_list_appointments_failed", err)
	}

	res := &Result{}

	if res.HistoryRemoved, err = uc.repo.DeleteHistoryByStaff(ctx, staffID, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_history_failed", err)
	}
	if res.AppointmentsRemoved, err = uc.repo.DeleteAppointmentsByIDs(ctx, apIDs); err != nil {
		return nil, httperr.Storage("cascade_delete_appointments_failed", err)
	}
	if res.BlockoutsRemoved, err = uc.repo.DeleteBlockoutsByStaff(ctx, staffID); err != nil {
		return nil, httperr.Storage("cascade_delete_blockouts_failed", err)
	}
	if res.WorkingHoursRemoved, err = uc.repo.DeleteWorkingHoursByStaff(ctx, staffID); err != nil {
		return nil, httperr.Storage("cascade_delete_working_hours_failed", err)
	}
	if err = uc.repo.DeleteStaff(ctx, staffID); err != nil {
		return nil, httperr.Storage("cascade_delete_staff_failed", err)
	}

	uc.dispatch(actor, "staff_deleted", "user", staffID, res)
	return res, nil
}

func (uc *Delete) dispatch(actor domain.Actor, action, entity string, entityID uint, res *Result) {
	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Metadata: res,
	})
}
