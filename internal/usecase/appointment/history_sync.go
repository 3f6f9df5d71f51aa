package appointment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// ======================================================
// HISTORY SYNCHRONIZER
// ======================================================

// HistorySync keeps the client history ledger mirroring appointment state.
// One ledger row per appointment: replaying the same significant status N
// times leaves exactly one row in its final state.
type HistorySync struct {
	repo domain.Repository
}

func NewHistorySync(repo domain.Repository) *HistorySync {
	return &HistorySync{repo: repo}
}

// RecordOrUpdate is called for significant statuses only. It overwrites the
// existing row for this appointment, or creates the first one.
func (s *HistorySync) RecordOrUpdate(
	ctx context.Context,
	ap *models.Appointment,
	status domain.Status,
) error {

	h, err := s.repo.GetHistoryByAppointment(ctx, ap.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		apID := ap.ID
		return s.repo.CreateHistory(ctx, &models.ClientHistory{
			ClientID:      ap.ClientID,
			AppointmentID: &apID,
			ServiceID:     ap.ServiceID,
			StaffID:       ap.StaffID,
			Date:          ap.StartTime,
			Status:        string(status),
			Notes:         ap.Notes,
		})
	}

	h.Status = string(status)
	s.mirror(h, ap)
	return s.repo.UpdateHistory(ctx, h)
}

// Refresh re-mirrors service/staff/date/notes after an appointment edit.
// It does nothing when no ledger row exists yet; status is left untouched.
func (s *HistorySync) Refresh(ctx context.Context, ap *models.Appointment) error {
	h, err := s.repo.GetHistoryByAppointment(ctx, ap.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	s.mirror(h, ap)
	return s.repo.UpdateHistory(ctx, h)
}

func (s *HistorySync) mirror(h *models.ClientHistory, ap *models.Appointment) {
	h.ClientID = ap.ClientID
	h.ServiceID = ap.ServiceID
	h.StaffID = ap.StaffID
	h.Date = ap.StartTime
	h.Notes = ap.Notes
}
