package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Referenced entities
// --------------------------------------------------

func (r *ScheduleGormRepository) GetClient(
	ctx context.Context,
	id uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *ScheduleGormRepository) GetStaff(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var staff models.User
	if err := r.db.WithContext(ctx).First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *ScheduleGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *ScheduleGormRepository) ListWorkingHours(
	ctx context.Context,
	staffID uint,
	weekday int,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ?", staffID, weekday).
		Order("position ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *ScheduleGormRepository) ListBlockoutsForRange(
	ctx context.Context,
	staffID uint,
	rng schedule.TimeRange,
) ([]models.StaffBlockout, error) {

	var blockouts []models.StaffBlockout
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND start_time < ? AND end_time > ?",
			staffID, rng.End, rng.Start,
		).
		Order("start_time ASC").
		Find(&blockouts).Error; err != nil {
		return nil, err
	}
	return blockouts, nil
}

func (r *ScheduleGormRepository) HasBlockoutOverlap(
	ctx context.Context,
	staffID uint,
	rng schedule.TimeRange,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StaffBlockout{}).
		Where(
			"staff_id = ? AND start_time < ? AND end_time > ?",
			staffID, rng.End, rng.Start,
		).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	staffID uint,
	rng schedule.TimeRange,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"staff_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			staffID, rng.End, rng.Start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *ScheduleGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Where("start_time >= ? AND start_time < ?", start, end)

	if staffID != 0 {
		q = q.Where("staff_id = ?", staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Booking (conflict-checked)
// --------------------------------------------------

// lockedOverlapCount counts non-cancelled overlapping appointments inside
// the caller's transaction, locking the matched rows so a concurrent
// booking for the same staff member serializes behind us. Postgres does
// not allow FOR UPDATE together with an aggregate, so the rows are
// locked via Pluck and counted here.
func lockedOverlapCount(
	tx *gorm.DB,
	staffID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (int64, error) {

	q := tx.
		Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"staff_id = ? AND status <> 'cancelled' AND start_time < ? AND end_time > ?",
			staffID, end, start,
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func (r *ScheduleGormRepository) CreateAppointmentChecked(
	ctx context.Context,
	ap *models.Appointment,
	maxConcurrent int,
) error {
	return r.bookChecked(ctx, ap, maxConcurrent, 0, func(tx *gorm.DB) error {
		return tx.Create(ap).Error
	})
}

func (r *ScheduleGormRepository) SaveAppointmentChecked(
	ctx context.Context,
	ap *models.Appointment,
	maxConcurrent int,
) error {
	return r.bookChecked(ctx, ap, maxConcurrent, ap.ID, func(tx *gorm.DB) error {
		return tx.Save(ap).Error
	})
}

func (r *ScheduleGormRepository) bookChecked(
	ctx context.Context,
	ap *models.Appointment,
	maxConcurrent int,
	excludeID uint,
	write func(tx *gorm.DB) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := lockedOverlapCount(tx, ap.StaffID, ap.StartTime, ap.EndTime, excludeID)
		if err != nil {
			return err
		}
		if count >= int64(maxConcurrent) {
			return httperr.Conflict("max_concurrent_reached", "Max concurrent appointments reached.")
		}
		return write(tx)
	})

	if err != nil {
		// the database itself may still catch a race via constraints
		if httperr.IsExclusionConflict(err) || httperr.IsUniqueConflict(err) {
			return httperr.Conflict("max_concurrent_reached", "Max concurrent appointments reached.")
		}
		return err
	}
	return nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *ScheduleGormRepository) DeleteAppointmentCascade(
	ctx context.Context,
	id uint,
) (int64, error) {

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("appointment_id = ?", id).Delete(&models.ClientHistory{})
		if res.Error != nil {
			return httperr.Storage("delete_history_failed", res.Error)
		}
		removed = res.RowsAffected

		if err := tx.Delete(&models.Appointment{}, id).Error; err != nil {
			return httperr.Storage("delete_appointment_failed", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// --------------------------------------------------
// History ledger
// --------------------------------------------------

func (r *ScheduleGormRepository) GetHistoryByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.ClientHistory, error) {

	var h models.ClientHistory
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&h).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *ScheduleGormRepository) CreateHistory(
	ctx context.Context,
	h *models.ClientHistory,
) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *ScheduleGormRepository) UpdateHistory(
	ctx context.Context,
	h *models.ClientHistory,
) error {
	return r.db.WithContext(ctx).Save(h).Error
}

func (r *ScheduleGormRepository) ListHistoryForClient(
	ctx context.Context,
	clientID uint,
) ([]models.ClientHistory, error) {

	var entries []models.ClientHistory
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Cascade primitives
// --------------------------------------------------

func (r *ScheduleGormRepository) listAppointmentIDs(
	ctx context.Context,
	column string,
	id uint,
) ([]uint, error) {

	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(column+" = ?", id).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ScheduleGormRepository) ListAppointmentIDsByClient(ctx context.Context, clientID uint) ([]uint, error) {
	return r.listAppointmentIDs(ctx, "client_id", clientID)
}

func (r *ScheduleGormRepository) ListAppointmentIDsByService(ctx context.Context, serviceID uint) ([]uint, error) {
	return r.listAppointmentIDs(ctx, "service_id", serviceID)
}

func (r *ScheduleGormRepository) ListAppointmentIDsByStaff(ctx context.Context, staffID uint) ([]uint, error) {
	return r.listAppointmentIDs(ctx, "staff_id", staffID)
}

func (r *ScheduleGormRepository) deleteHistory(
	ctx context.Context,
	column string,
	id uint,
	appointmentIDs []uint,
) (int64, error) {

	q := r.db.WithContext(ctx).Where(column+" = ?", id)
	if len(appointmentIDs) > 0 {
		q = q.Or("appointment_id IN ?", appointmentIDs)
	}

	res := q.Delete(&models.ClientHistory{})
	return res.RowsAffected, res.Error
}

func (r *ScheduleGormRepository) DeleteHistoryByClient(ctx context.Context, clientID uint, appointmentIDs []uint) (int64, error) {
	return r.deleteHistory(ctx, "client_id", clientID, appointmentIDs)
}

func (r *ScheduleGormRepository) DeleteHistoryByService(ctx context.Context, serviceID uint, appointmentIDs []uint) (int64, error) {
	return r.deleteHistory(ctx, "service_id", serviceID, appointmentIDs)
}

func (r *ScheduleGormRepository) DeleteHistoryByStaff(ctx context.Context, staffID uint, appointmentIDs []uint) (int64, error) {
	return r.deleteHistory(ctx, "staff_id", staffID, appointmentIDs)
}

func (r *ScheduleGormRepository) DeleteAppointmentsByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, ids)
	return res.RowsAffected, res.Error
}

func (r *ScheduleGormRepository) DeleteBlockoutsByStaff(ctx context.Context, staffID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("staff_id = ?", staffID).Delete(&models.StaffBlockout{})
	return res.RowsAffected, res.Error
}

func (r *ScheduleGormRepository) DeleteWorkingHoursByStaff(ctx context.Context, staffID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("staff_id = ?", staffID).Delete(&models.WorkingHours{})
	return res.RowsAffected, res.Error
}

func (r *ScheduleGormRepository) DeleteClient(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

func (r *ScheduleGormRepository) DeleteService(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Service{}, id).Error
}

func (r *ScheduleGormRepository) DeleteStaff(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.User{}, id).Error
}

// Compile-time checks
var (
	_ schedule.Repository        = (*ScheduleGormRepository)(nil)
	_ schedule.CascadeRepository = (*ScheduleGormRepository)(nil)
)
