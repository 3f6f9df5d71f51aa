package schedule

import (
	"time"

	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusArrived     Status = "arrived"
	StatusCheckedIn   Status = "checked-in"
	StatusCompleted   Status = "completed"
	StatusNoShow      Status = "no-show"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

// statusAliases maps legacy spellings accepted at the serialization
// boundary onto canonical values. "noShow" appears in older client payloads.
var statusAliases = map[string]Status{
	"noShow":    StatusNoShow,
	"checkedIn": StatusCheckedIn,
}

func ParseStatus(s string) (Status, error) {
	if canonical, ok := statusAliases[s]; ok {
		return canonical, nil
	}
	switch st := Status(s); st {
	case StatusScheduled, StatusArrived, StatusCheckedIn, StatusCompleted,
		StatusNoShow, StatusCancelled, StatusRescheduled:
		return st, nil
	}
	return "", httperr.Validation("invalid_status", "Unknown appointment status.")
}

// IsSignificant reports whether a status transition must be mirrored into
// the client history ledger.
func (s Status) IsSignificant() bool {
	switch s {
	case StatusArrived, StatusCheckedIn, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// ApplyStatus sets the new status on the appointment. Any status may follow
// any other; the authorization gate lives with the caller. Timestamps track
// the terminal transitions.
func ApplyStatus(ap *models.Appointment, st Status, now time.Time) {
	ap.Status = string(st)

	switch st {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	}
}

func InitialStatus() Status {
	return StatusScheduled
}
