package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

func seedAppointment(repo *mockScheduleRepo, staffID uint, start, end time.Time) *models.Appointment {
	ap := &models.Appointment{
		ID:        repo.nextAppointmentID,
		ClientID:  1,
		ServiceID: 1,
		StaffID:   staffID,
		StartTime: start,
		EndTime:   end,
		Status:    "scheduled",
	}
	repo.nextAppointmentID++
	repo.appointments[ap.ID] = ap
	return ap
}

func TestReschedule_KeepsDurationAndSetsStatus(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(90)
	ap := seedAppointment(repo, 1, mondayAt(10, 0), mondayAt(11, 30))

	uc := NewRescheduleAppointment(repo, NewHistorySync(repo), nil, 2)

	moved, err := uc.Execute(context.Background(), staffActor, ap.ID, mondayAt(14, 0))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !moved.EndTime.Equal(mondayAt(15, 30)) {
		t.Errorf("EndTime = %v, want 15:30 (90 min preserved)", moved.EndTime)
	}
	if moved.Status != "rescheduled" {
		t.Errorf("Status = %q, want rescheduled", moved.Status)
	}
}

func TestReschedule_DoesNotConflictWithItself(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	ap := seedAppointment(repo, 1, mondayAt(10, 0), mondayAt(11, 0))

	uc := NewRescheduleAppointment(repo, NewHistorySync(repo), nil, 1)

	// shifting 30 min still overlaps the old window; with maxConcurrent 1
	// the move only succeeds because the appointment excludes itself
	if _, err := uc.Execute(context.Background(), staffActor, ap.ID, mondayAt(10, 30)); err != nil {
		t.Fatalf("self-overlapping reschedule: %v", err)
	}
}

func TestReschedule_HitsConcurrencyCap(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	seedAppointment(repo, 1, mondayAt(14, 0), mondayAt(15, 0))
	seedAppointment(repo, 1, mondayAt(14, 0), mondayAt(15, 0))
	ap := seedAppointment(repo, 1, mondayAt(10, 0), mondayAt(11, 0))

	uc := NewRescheduleAppointment(repo, NewHistorySync(repo), nil, 2)

	_, err := uc.Execute(context.Background(), staffActor, ap.ID, mondayAt(14, 30))
	if !httperr.IsCode(err, "max_concurrent_reached") {
		t.Fatalf("expected max_concurrent_reached, got %v", err)
	}
}

func TestReschedule_RefreshesHistoryDate(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	ap := seedAppointment(repo, 1, mondayAt(10, 0), mondayAt(11, 0))

	sync := NewHistorySync(repo)
	if err := sync.RecordOrUpdate(context.Background(), ap, "arrived"); err != nil {
		t.Fatalf("seed history: %v", err)
	}

	uc := NewRescheduleAppointment(repo, sync, nil, 2)
	if _, err := uc.Execute(context.Background(), staffActor, ap.ID, mondayAt(14, 0)); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	h, err := repo.GetHistoryByAppointment(context.Background(), ap.ID)
	if err != nil {
		t.Fatalf("history row vanished: %v", err)
	}
	if !h.Date.Equal(mondayAt(14, 0)) {
		t.Errorf("history Date = %v, want 14:00", h.Date)
	}
	if h.Status != "arrived" {
		t.Errorf("history Status = %q, refresh must not touch status", h.Status)
	}
}

func TestReschedule_AuthorizationGate(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	ap := seedAppointment(repo, 1, mondayAt(10, 0), mondayAt(11, 0))

	uc := NewRescheduleAppointment(repo, NewHistorySync(repo), nil, 2)

	other := staffActor
	other.ID = 7
	_, err := uc.Execute(context.Background(), other, ap.ID, mondayAt(14, 0))
	if !httperr.IsCode(err, "not_own_appointment") {
		t.Fatalf("expected not_own_appointment, got %v", err)
	}

	// admin moves anyone's appointment
	if _, err := uc.Execute(context.Background(), adminActor, ap.ID, mondayAt(14, 0)); err != nil {
		t.Fatalf("admin reschedule: %v", err)
	}
}
