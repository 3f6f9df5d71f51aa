package schedule

import (
	"context"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/models"
)

// Repository is the persistence contract of the scheduling core. Lookups
// return gorm.ErrRecordNotFound untouched; use cases translate it.
type Repository interface {
	// -------- Referenced entities --------
	GetClient(ctx context.Context, id uint) (*models.Client, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetStaff(ctx context.Context, id uint) (*models.User, error)
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// -------- Availability --------
	ListWorkingHours(
		ctx context.Context,
		staffID uint,
		weekday int,
	) ([]models.WorkingHours, error)

	ListBlockoutsForRange(
		ctx context.Context,
		staffID uint,
		r TimeRange,
	) ([]models.StaffBlockout, error)

	HasBlockoutOverlap(
		ctx context.Context,
		staffID uint,
		r TimeRange,
	) (bool, error)

	ListAppointmentsForDay(
		ctx context.Context,
		staffID uint,
		r TimeRange,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Booking (conflict-checked) --------

	// CreateAppointmentChecked counts overlapping non-cancelled appointments
	// and inserts in one transaction, locking the overlap set, so two
	// concurrent bookings cannot both slip under maxConcurrent.
	CreateAppointmentChecked(
		ctx context.Context,
		ap *models.Appointment,
		maxConcurrent int,
	) error

	// SaveAppointmentChecked is the reschedule/edit variant: it excludes
	// ap.ID from the overlap set.
	SaveAppointmentChecked(
		ctx context.Context,
		ap *models.Appointment,
		maxConcurrent int,
	) error

	UpdateAppointment(ctx context.Context, ap *models.Appointment) error

	// DeleteAppointmentCascade removes the appointment's history rows, then
	// the appointment. Returns the number of history rows removed.
	DeleteAppointmentCascade(ctx context.Context, id uint) (int64, error)

	// -------- History ledger --------
	GetHistoryByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.ClientHistory, error)

	CreateHistory(ctx context.Context, h *models.ClientHistory) error
	UpdateHistory(ctx context.Context, h *models.ClientHistory) error

	ListHistoryForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.ClientHistory, error)
}

// CascadeRepository exposes the primitive deletes used by the ordered
// cascade use cases (client/service/staff removal).
type CascadeRepository interface {
	ListAppointmentIDsByClient(ctx context.Context, clientID uint) ([]uint, error)
	ListAppointmentIDsByService(ctx context.Context, serviceID uint) ([]uint, error)
	ListAppointmentIDsByStaff(ctx context.Context, staffID uint) ([]uint, error)

	// History deletes match the entity directly or any of its appointments,
	// so no orphaned ledger row can survive the cascade.
	DeleteHistoryByClient(ctx context.Context, clientID uint, appointmentIDs []uint) (int64, error)
	DeleteHistoryByService(ctx context.Context, serviceID uint, appointmentIDs []uint) (int64, error)
	DeleteHistoryByStaff(ctx context.Context, staffID uint, appointmentIDs []uint) (int64, error)

	DeleteAppointmentsByIDs(ctx context.Context, ids []uint) (int64, error)
	DeleteBlockoutsByStaff(ctx context.Context, staffID uint) (int64, error)
	DeleteWorkingHoursByStaff(ctx context.Context, staffID uint) (int64, error)

	DeleteClient(ctx context.Context, id uint) error
	DeleteService(ctx context.Context, id uint) error
	DeleteStaff(ctx context.Context, id uint) error
}
