package appointment

import (
	"context"
	"time"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/dto"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// ByDate lists one calendar day. staffID 0 means all staff (admin views).
func (uc *ListAppointments) ByDate(
	ctx context.Context,
	staffID uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return uc.list(ctx, staffID, start, start.Add(24*time.Hour))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	staffID uint,
	year int,
	month int,
	loc *time.Location,
) ([]dto.AppointmentListDTO, error) {

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return uc.list(ctx, staffID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) list(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, staffID, start, end)
	if err != nil {
		return nil, httperr.Storage("list_appointments_failed", err)
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, toListDTO(ap))
	}
	return out, nil
}

func toListDTO(ap models.Appointment) dto.AppointmentListDTO {
	return dto.AppointmentListDTO{
		ID:           ap.ID,
		StartTime:    ap.StartTime,
		EndTime:      ap.EndTime,
		Status:       ap.Status,
		Confirmation: ap.Confirmation,
		ClientName:   ap.Client.Name,
		ServiceName:  ap.Service.Name,
		StaffName:    ap.Staff.Name,
	}
}
