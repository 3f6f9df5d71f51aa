package appointment

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// mockScheduleRepo is an in-memory stand-in for the gorm repository. The
// checked writes replay the same count-then-write logic, minus the locking.
type mockScheduleRepo struct {
	clients  map[uint]*models.Client
	services map[uint]*models.Service
	staff    map[uint]*models.User

	appointments map[uint]*models.Appointment
	workingHours []models.WorkingHours
	blockouts    []models.StaffBlockout
	history      map[uint]*models.ClientHistory

	nextAppointmentID uint
	nextHistoryID     uint
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{
		clients:           make(map[uint]*models.Client),
		services:          make(map[uint]*models.Service),
		staff:             make(map[uint]*models.User),
		appointments:      make(map[uint]*models.Appointment),
		history:           make(map[uint]*models.ClientHistory),
		nextAppointmentID: 1,
		nextHistoryID:     1,
	}
}

// seedBasics installs client 1, a service and staff member 1 with a
// Mon-Fri 09:00-17:00 template.
func (m *mockScheduleRepo) seedBasics(durationMin int) {
	m.clients[1] = &models.Client{ID: 1, Name: "Dana Reyes"}
	m.services[1] = &models.Service{ID: 1, Name: "Color", DurationMin: durationMin}
	m.staff[1] = &models.User{ID: 1, Name: "Sam Ortiz", Role: models.RoleBeautician}

	for wd := 1; wd <= 5; wd++ {
		m.workingHours = append(m.workingHours, models.WorkingHours{
			StaffID: 1, Weekday: wd, StartTime: "09:00", EndTime: "17:00",
		})
	}
}

// -------- Referenced entities --------

func (m *mockScheduleRepo) GetClient(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	if s, ok := m.services[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetStaff(_ context.Context, id uint) (*models.User, error) {
	if u, ok := m.staff[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := m.appointments[id]; ok {
		cp := *ap
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// -------- Availability --------

func (m *mockScheduleRepo) ListWorkingHours(
	_ context.Context,
	staffID uint,
	weekday int,
) ([]models.WorkingHours, error) {
	var out []models.WorkingHours
	for _, wh := range m.workingHours {
		if wh.StaffID == staffID && wh.Weekday == weekday {
			out = append(out, wh)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListBlockoutsForRange(
	_ context.Context,
	staffID uint,
	r domain.TimeRange,
) ([]models.StaffBlockout, error) {
	var out []models.StaffBlockout
	for _, b := range m.blockouts {
		if b.StaffID == staffID && r.Overlaps(domain.TimeRange{Start: b.StartTime, End: b.EndTime}) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) HasBlockoutOverlap(
	ctx context.Context,
	staffID uint,
	r domain.TimeRange,
) (bool, error) {
	bs, err := m.ListBlockoutsForRange(ctx, staffID, r)
	if err != nil {
		return false, err
	}
	return len(bs) > 0, nil
}

func (m *mockScheduleRepo) staffAppointments(staffID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range m.appointments {
		if ap.StaffID == staffID {
			out = append(out, *ap)
		}
	}
	return out
}

func (m *mockScheduleRepo) ListAppointmentsForDay(
	_ context.Context,
	staffID uint,
	r domain.TimeRange,
) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range m.staffAppointments(staffID) {
		if r.Overlaps(domain.TimeRange{Start: ap.StartTime, End: ap.EndTime}) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListAppointmentsForPeriod(
	_ context.Context,
	staffID uint,
	start, end time.Time,
) ([]models.Appointment, error) {
	r := domain.TimeRange{Start: start, End: end}
	var out []models.Appointment
	for _, ap := range m.appointments {
		if staffID != 0 && ap.StaffID != staffID {
			continue
		}
		if r.Overlaps(domain.TimeRange{Start: ap.StartTime, End: ap.EndTime}) {
			out = append(out, *ap)
		}
	}
	return out, nil
}

// -------- Booking --------

func (m *mockScheduleRepo) CreateAppointmentChecked(
	_ context.Context,
	ap *models.Appointment,
	maxConcurrent int,
) error {
	if m.overlapCount(ap, 0) >= maxConcurrent {
		return httperr.Conflict("max_concurrent_reached", "Max concurrent appointments reached.")
	}
	ap.ID = m.nextAppointmentID
	m.nextAppointmentID++
	cp := *ap
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) SaveAppointmentChecked(
	_ context.Context,
	ap *models.Appointment,
	maxConcurrent int,
) error {
	if m.overlapCount(ap, ap.ID) >= maxConcurrent {
		return httperr.Conflict("max_concurrent_reached", "Max concurrent appointments reached.")
	}
	cp := *ap
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) overlapCount(ap *models.Appointment, excludeID uint) int {
	r := domain.TimeRange{Start: ap.StartTime, End: ap.EndTime}
	return domain.CountOverlapping(m.staffAppointments(ap.StaffID), r, excludeID)
}

func (m *mockScheduleRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if _, ok := m.appointments[ap.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *ap
	m.appointments[ap.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) DeleteAppointmentCascade(_ context.Context, id uint) (int64, error) {
	var removed int64
	for hid, h := range m.history {
		if h.AppointmentID != nil && *h.AppointmentID == id {
			delete(m.history, hid)
			removed++
		}
	}
	delete(m.appointments, id)
	return removed, nil
}

// -------- History ledger --------

func (m *mockScheduleRepo) GetHistoryByAppointment(
	_ context.Context,
	appointmentID uint,
) (*models.ClientHistory, error) {
	for _, h := range m.history {
		if h.AppointmentID != nil && *h.AppointmentID == appointmentID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) CreateHistory(_ context.Context, h *models.ClientHistory) error {
	h.ID = m.nextHistoryID
	m.nextHistoryID++
	cp := *h
	m.history[h.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) UpdateHistory(_ context.Context, h *models.ClientHistory) error {
	if _, ok := m.history[h.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *h
	m.history[h.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) ListHistoryForClient(
	_ context.Context,
	clientID uint,
) ([]models.ClientHistory, error) {
	var out []models.ClientHistory
	for _, h := range m.history {
		if h.ClientID == clientID {
			out = append(out, *h)
		}
	}
	return out, nil
}

var _ domain.Repository = (*mockScheduleRepo)(nil)
