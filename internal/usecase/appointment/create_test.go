package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/salonsuite/salon-scheduler/internal/domain/schedule"
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

var (
	adminActor = domain.Actor{ID: 99, Role: models.RoleAdmin}
	staffActor = domain.Actor{ID: 1, Role: models.RoleBeautician}
)

// Monday 2026-03-02.
func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func TestCreateAppointment_Success(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	uc := NewCreateAppointment(repo, nil, 2)

	ap, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID:  1,
		ServiceID: 1,
		StaffID:   1,
		Start:     mondayAt(9, 0),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if ap.ID == 0 {
		t.Error("appointment should be persisted with an id")
	}
	if !ap.EndTime.Equal(mondayAt(10, 0)) {
		t.Errorf("EndTime = %v, want 10:00 (60 min service)", ap.EndTime)
	}
	if ap.Status != "scheduled" {
		t.Errorf("Status = %q, want scheduled", ap.Status)
	}
	if ap.Confirmation != models.ConfirmationUnsent {
		t.Errorf("Confirmation = %q, want unsent", ap.Confirmation)
	}
	if ap.ConfirmationCode == "" {
		t.Error("ConfirmationCode should be generated")
	}
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	uc := NewCreateAppointment(repo, nil, 2)

	// 08:30 start on a 09:00-17:00 day
	_, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID: 1, ServiceID: 1, StaffID: 1, Start: mondayAt(8, 30),
	})
	if !httperr.IsCode(err, "outside_working_hours") {
		t.Fatalf("expected outside_working_hours, got %v", err)
	}

	// Sunday: no template rows at all
	_, err = uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID: 1, ServiceID: 1, StaffID: 1,
		Start: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if !httperr.IsCode(err, "outside_working_hours") {
		t.Fatalf("expected outside_working_hours on Sunday, got %v", err)
	}
}

func TestCreateAppointment_BlockoutOverlap(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	repo.blockouts = append(repo.blockouts, models.StaffBlockout{
		ID: 1, StaffID: 1, Reason: models.BlockoutLunch,
		StartTime: mondayAt(12, 0), EndTime: mondayAt(13, 0),
	})
	uc := NewCreateAppointment(repo, nil, 2)

	_, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID: 1, ServiceID: 1, StaffID: 1, Start: mondayAt(12, 30),
	})
	if !httperr.IsCode(err, "blockout_overlap") {
		t.Fatalf("expected blockout_overlap, got %v", err)
	}

	// 13:00 starts exactly at the blockout end and must pass
	if _, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID: 1, ServiceID: 1, StaffID: 1, Start: mondayAt(13, 0),
	}); err != nil {
		t.Fatalf("slot at blockout end should book: %v", err)
	}
}

func TestCreateAppointment_ConcurrencyCap(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	uc := NewCreateAppointment(repo, nil, 2)

	book := func() error {
		_, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
			ClientID: 1, ServiceID: 1, StaffID: 1, Start: mondayAt(10, 0),
		})
		return err
	}

	if err := book(); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if err := book(); err != nil {
		t.Fatalf("second booking (limited double-booking): %v", err)
	}
	if err := book(); !httperr.IsCode(err, "max_concurrent_reached") {
		t.Fatalf("third booking should hit the cap, got %v", err)
	}

	// cancelled appointments free the slot
	for _, ap := range repo.appointments {
		ap.Status = "cancelled"
		break
	}
	if err := book(); err != nil {
		t.Fatalf("booking over a cancelled appointment: %v", err)
	}
}

func TestCreateAppointment_MissingReferences(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(60)
	uc := NewCreateAppointment(repo, nil, 2)

	cases := []struct {
		name string
		in   CreateAppointmentInput
		code string
	}{
		{"no client id", CreateAppointmentInput{ServiceID: 1, StaffID: 1, Start: mondayAt(10, 0)}, "missing_client"},
		{"no start", CreateAppointmentInput{ClientID: 1, ServiceID: 1, StaffID: 1}, "missing_start_time"},
		{"unknown client", CreateAppointmentInput{ClientID: 42, ServiceID: 1, StaffID: 1, Start: mondayAt(10, 0)}, "client_not_found"},
		{"unknown service", CreateAppointmentInput{ClientID: 1, ServiceID: 42, StaffID: 1, Start: mondayAt(10, 0)}, "service_not_found"},
		{"unknown staff", CreateAppointmentInput{ClientID: 1, ServiceID: 1, StaffID: 42, Start: mondayAt(10, 0)}, "staff_not_found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), adminActor, tc.in)
			if !httperr.IsCode(err, tc.code) {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestCreateAppointment_DegenerateDuration(t *testing.T) {
	repo := newMockScheduleRepo()
	repo.seedBasics(0)
	uc := NewCreateAppointment(repo, nil, 2)

	_, err := uc.Execute(context.Background(), adminActor, CreateAppointmentInput{
		ClientID: 1, ServiceID: 1, StaffID: 1, Start: mondayAt(10, 0),
	})
	if !httperr.IsCode(err, "invalid_duration") {
		t.Fatalf("expected invalid_duration, got %v", err)
	}
}
