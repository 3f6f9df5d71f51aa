package schedule

import (
	"github.com/salonsuite/salon-scheduler/internal/httperr"
	"github.com/salonsuite/salon-scheduler/internal/models"
)

// Actor is the authenticated principal acting on an appointment.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Authorize gates appointment mutations: admins may change any appointment,
// a staff member only their own.
func (a Actor) Authorize(ap *models.Appointment) error {
	if a.IsAdmin() || a.ID == ap.StaffID {
		return nil
	}
	return httperr.Forbidden("not_own_appointment", "Only the assigned staff member or an admin may change this appointment.")
}
