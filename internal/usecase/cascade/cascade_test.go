package cascade

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// mockCascadeStore backs both the cascade primitives and the existence
// checks with plain maps so ordering and counts can be asserted directly.
type mockCascadeStore struct {
	clients  map[uint]*models.Client
	services map[uint]*models.Service
	staff    map[uint]*models.User

	appointments map[uint]*models.Appointment
	blockouts    map[uint]*models.StaffBlockout
	workingHours map[uint]*models.WorkingHours
	history      map[uint]*models.ClientHistory

	steps []string

	failOn string // step name that should error, "" = none
}

func newMockCascadeStore() *mockCascadeStore {
	return &mockCascadeStore{
		clients:      make(map[uint]*models.Client),
		services:     make(map[uint]*models.Service),
		staff:        make(map[uint]*models.User),
		appointments: make(map[uint]*models.Appointment),
		blockouts:    make(map[uint]*models.StaffBlockout),
		workingHours: make(map[uint]*models.WorkingHours),
		history:      make(map[uint]*models.ClientHistory),
	}
}

func (m *mockCascadeStore) step(name string) error {
	m.steps = append(m.steps, name)
	if m.failOn == name {
		return errors.New("storage down")
	}
	return nil
}

// -------- CascadeRepository --------

func (m *mockCascadeStore) ListAppointmentIDsByClient(_ context.Context, clientID uint) ([]uint, error) {
	var ids []uint
	for id, ap := range m.appointments {
		if ap.ClientID == clientID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockCascadeStore) ListAppointmentIDsByService(_ context.Context, serviceID uint) ([]uint, error) {
	var ids []uint
	for id, ap := range m.appointments {
		if ap.ServiceID == serviceID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockCascadeStore) ListAppointmentIDsByStaff(_ context.Context, staffID uint) ([]uint, error) {
	var ids []uint
	for id, ap := range m.appointments {
		if ap.StaffID == staffID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *mockCascadeStore) deleteHistory(match func(*models.ClientHistory) bool, appointmentIDs []uint) int64 {
	inApIDs := func(h *models.ClientHistory) bool {
		if h.AppointmentID == nil {
			return false
		}
		for _, id := range appointmentIDs {
			if *h.AppointmentID == id {
				return true
			}
		}
		return false
	}

	var n int64
	for id, h := range m.history {
		if match(h) || inApIDs(h) {
			delete(m.history, id)
			n++
		}
	}
	return n
}

func (m *mockCascadeStore) DeleteHistoryByClient(_ context.Context, clientID uint, apIDs []uint) (int64, error) {
	if err := m.step("history"); err != nil {
		return 0, err
	}
	return m.deleteHistory(func(h *models.ClientHistory) bool { return h.ClientID == clientID }, apIDs), nil
}

func (m *mockCascadeStore) DeleteHistoryByService(_ context.Context, serviceID uint, apIDs []uint) (int64, error) {
	if err := m.step("history"); err != nil {
		return 0, err
	}
	return m.deleteHistory(func(h *models.ClientHistory) bool { return h.ServiceID == serviceID }, apIDs), nil
}

func (m *mockCascadeStore) DeleteHistoryByStaff(_ context.Context, staffID uint, apIDs []uint) (int64, error) {
	if err := m.step("history"); err != nil {
		return 0, err
	}
	return m.deleteHistory(func(h *models.ClientHistory) bool { return h.StaffID == staffID }, apIDs), nil
}

func (m *mockCascadeStore) DeleteAppointmentsByIDs(_ context.Context, ids []uint) (int64, error) {
	if err := m.step("appointments"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if _, ok := m.appointments[id]; ok {
			delete(m.appointments, id)
			n++
		}
	}
	return n, nil
}

func (m *mockCascadeStore) DeleteBlockoutsByStaff(_ context.Context, staffID uint) (int64, error) {
	if err := m.step("blockouts"); err != nil {
		return 0, err
	}
	var n int64
	for id, b := range m.blockouts {
		if b.StaffID == staffID {
			delete(m.blockouts, id)
			n++
		}
	}
	return n, nil
}

func (m *mockCascadeStore) DeleteWorkingHoursByStaff(_ context.Context, staffID uint) (int64, error) {
	if err := m.step("workingHours"); err != nil {
		return 0, err
	}
	var n int64
	for id, wh := range m.workingHours {
		if wh.StaffID == staffID {
			delete(m.workingHours, id)
			n++
		}
	}
	return n, nil
}

func (m *mockCascadeStore) DeleteClient(_ context.Context, id uint) error {
	if err := m.step("entity"); err != nil {
		return err
	}
	delete(m.clients, id)
	return nil
}

func (m *mockCascadeStore) DeleteService(_ context.Context, id uint) error {
	if err := m.step("entity"); err != nil {
		return err
	}
	delete(m.services, id)
	return nil
}

func (m *mockCascadeStore) DeleteStaff(_ context.Context, id uint) error {
	if err := m.step("entity"); err != nil {
		return err
	}
	delete(m.staff, id)
	return nil
}

// -------- Existence checks (domain.Repository subset used by cascades) --------

func (m *mockCascadeStore) GetClient(_ context.Context, id uint) (*models.Client, error) {
	if c, ok := m.clients[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCascadeStore) GetService(_ context.Context, id uint) (*models.Service, error) {
	if s, ok := m.services[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCascadeStore) GetStaff(_ context.Context, id uint) (*models.User, error) {
	if u, ok := m.staff[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCascadeStore) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	if ap, ok := m.appointments[id]; ok {
		return ap, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCascadeStore) ListWorkingHours(context.Context, uint, int) ([]models.WorkingHours, error) {
	return nil, nil
}

func (m *mockCascadeStore) ListBlockoutsForRange(context.Context, uint, domain.TimeRange) ([]models.StaffBlockout, error) {
	return nil, nil
}

func (m *mockCascadeStore) HasBlockoutOverlap(context.Context, uint, domain.TimeRange) (bool, error) {
	return false, nil
}

func (m *mockCascadeStore) ListAppointmentsForDay(context.Context, uint, domain.TimeRange) ([]models.Appointment, error) {
	return nil, nil
}

func (m *mockCascadeStore) ListAppointmentsForPeriod(context.Context, uint, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (m *mockCascadeStore) CreateAppointmentChecked(context.Context, *models.Appointment, int) error {
	return nil
}

func (m *mockCascadeStore) SaveAppointmentChecked(context.Context, *models.Appointment, int) error {
	return nil
}

func (m *mockCascadeStore) UpdateAppointment(context.Context, *models.Appointment) error {
	return nil
}

func (m *mockCascadeStore) DeleteAppointmentCascade(context.Context, uint) (int64, error) {
	return 0, nil
}

func (m *mockCascadeStore) GetHistoryByAppointment(context.Context, uint) (*models.ClientHistory, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCascadeStore) CreateHistory(context.Context, *models.ClientHistory) error { return nil }
func (m *mockCascadeStore) UpdateHistory(context.Context, *models.ClientHistory) error { return nil }

func (m *mockCascadeStore) ListHistoryForClient(context.Context, uint) ([]models.ClientHistory, error) {
	return nil, nil
}

var (
	_ domain.CascadeRepository = (*mockCascadeStore)(nil)
	_ domain.Repository        = (*mockCascadeStore)(nil)
)

// ======================================================
// FIXTURES
// ======================================================

var admin = domain.Actor{ID: 1, Role: models.RoleAdmin}

func seedWorld(m *mockCascadeStore) {
	m.clients[10] = &models.Client{ID: 10, Name: "Dana Reyes"}
	m.services[20] = &models.Service{ID: 20, Name: "Color", DurationMin: 90}
	m.staff[30] = &models.User{ID: 30, Name: "Sam Ortiz"}
	m.staff[31] = &models.User{ID: 31, Name: "Noa Kim"}

	apID := func(id uint) *uint { return &id }

	// three appointments for client 10 with staff 30, one with staff 31
	m.appointments[1] = &models.Appointment{ID: 1, ClientID: 10, ServiceID: 20, StaffID: 30}
	m.appointments[2] = &models.Appointment{ID: 2, ClientID: 10, ServiceID: 20, StaffID: 30}
	m.appointments[3] = &models.Appointment{ID: 3, ClientID: 10, ServiceID: 20, StaffID: 31}

	// history: two rows tied to appointments, one direct client row
	m.history[1] = &models.ClientHistory{ID: 1, ClientID: 10, ServiceID: 20, StaffID: 30, AppointmentID: apID(1)}
	m.history[2] = &models.ClientHistory{ID: 2, ClientID: 10, ServiceID: 20, StaffID: 31, AppointmentID: apID(3)}
	m.history[3] = &models.ClientHistory{ID: 3, ClientID: 10, ServiceID: 20, StaffID: 30}

	m.blockouts[1] = &models.StaffBlockout{ID: 1, StaffID: 30, Reason: models.BlockoutLunch}
	m.workingHours[1] = &models.WorkingHours{ID: 1, StaffID: 30, Weekday: 1, StartTime: "09:00", EndTime: "17:00"}
	m.workingHours[2] = &models.WorkingHours{ID: 2, StaffID: 30, Weekday: 2, StartTime: "09:00", EndTime: "17:00"}
}

// ======================================================
// TESTS
// ======================================================

func TestCascade_Client(t *testing.T) {
	store := newMockCascadeStore()
	seedWorld(store)

	uc := NewDelete(store, store, nil)

	res, err := uc.Client(context.Background(), admin, 10)
	if err != nil {
		t.Fatalf("Client: %v", err)
	}

	if res.HistoryRemoved != 3 {
		t.Errorf("HistoryRemoved = %d, want 3", res.HistoryRemoved)
	}
	if res.AppointmentsRemoved != 3 {
		t.Errorf("AppointmentsRemoved = %d, want 3", res.AppointmentsRemoved)
	}
	if len(store.history) != 0 || len(store.appointments) != 0 {
		t.Error("client cascade left rows behind")
	}
	if _, ok := store.clients[10]; ok {
		t.Error("client row should be gone")
	}
}

func TestCascade_Staff(t *testing.T) {
	store := newMockCascadeStore()
	seedWorld(store)

	uc := NewDelete(store, store, nil)

	res, err := uc.Staff(context.Background(), admin, 30)
	if err != nil {
		t.Fatalf("Staff: %v", err)
	}

	// rows 1 (appointment 1) and 3 (direct staff row); row 2 belongs to staff 31
	if res.HistoryRemoved != 2 {
		t.Errorf("HistoryRemoved = %d, want 2", res.HistoryRemoved)
	}
	if res.AppointmentsRemoved != 2 {
		t.Errorf("AppointmentsRemoved = %d, want 2", res.AppointmentsRemoved)
	}
	if res.BlockoutsRemoved != 1 {
		t.Errorf("BlockoutsRemoved = %d, want 1", res.BlockoutsRemoved)
	}
	if res.WorkingHoursRemoved != 2 {
		t.Errorf("WorkingHoursRemoved = %d, want 2", res.WorkingHoursRemoved)
	}

	if _, ok := store.appointments[3]; !ok {
		t.Error("staff 31's appointment must survive")
	}
	if _, ok := store.history[2]; !ok {
		t.Error("staff 31's history row must survive")
	}
}

func TestCascade_StaffStepOrder(t *testing.T) {
	store := newMockCascadeStore()
	seedWorld(store)

	uc := NewDelete(store, store, nil)
	if _, err := uc.Staff(context.Background(), admin, 30); err != nil {
		t.Fatalf("Staff: %v", err)
	}

	want := []string{"history", "appointments", "blockouts", "workingHours", "entity"}
	if len(store.steps) != len(want) {
		t.Fatalf("steps = %v, want %v", store.steps, want)
	}
	for i := range want {
		if store.steps[i] != want[i] {
			t.Errorf("step %d = %s, want %s", i, store.steps[i], want[i])
		}
	}
}

func TestCascade_FailedStepAbortsAndNames(t *testing.T) {
	store := newMockCascadeStore()
	seedWorld(store)
	store.failOn = "appointments"

	uc := NewDelete(store, store, nil)

	_, err := uc.Client(context.Background(), admin, 10)
	if !httperr.IsCode(err, "cascade_delete_appointments_failed") {
		t.Fatalf("expected cascade_delete_appointments_failed, got %v", err)
	}
	if _, ok := store.clients[10]; !ok {
		t.Error("entity delete must not run after a failed step")
	}
}

func TestCascade_Service(t *testing.T) {
	store := newMockCascadeStore()
	seedWorld(store)

	uc := NewDelete(store, store, nil)

	res, err := uc.Service(context.Background(), admin, 20)
	if err != nil {
		t.Fatalf("Service: %v", err)
	}
	if res.HistoryRemoved != 3 || res.AppointmentsRemoved != 3 {
		t.Errorf("removed = %+v, want all three of each", res)
	}
	if _, ok := store.services[20]; ok {
		t.Error("service row should be gone")
	}
}

func TestCascade_UnknownEntity(t *testing.T) {
	store := newMockCascadeStore()
	uc := NewDelete(store, store, nil)

	if _, err := uc.Client(context.Background(), admin, 404); !httperr.IsCode(err, "client_not_found") {
		t.Errorf("client: %v", err)
	}
	if _, err := uc.Service(context.Background(), admin, 404); !httperr.IsCode(err, "service_not_found") {
		t.Errorf("service: %v", err)
	}
	if _, err := uc.Staff(context.Background(), admin, 404); !httperr.IsCode(err, "staff_not_found") {
		t.Errorf("staff: %v", err)
	}
}
