package models

import "time"

// ClientHistory is a derived ledger mirroring significant appointment status
// changes. The unique index on AppointmentID enforces at most one row per
// appointment: repeat significant transitions overwrite, never duplicate.
type ClientHistory struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID      uint  `gorm:"index" json:"client_id"`
	AppointmentID *uint `gorm:"uniqueIndex" json:"appointment_id"`
	ServiceID     uint  `json:"service_id"`
	StaffID       uint  `gorm:"index" json:"staff_id"`

	// Date is the appointment's start time at the moment this row was written.
	Date   time.Time `json:"date"`
	Status string    `gorm:"size:20" json:"status"`
	Notes  string    `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
