package models

import "time"

const (
	BlockoutLeave    = "LEAVE"
	BlockoutLunch    = "LUNCH"
	BlockoutMeeting  = "MEETING"
	BlockoutTraining = "TRAINING"
	BlockoutOther    = "OTHER"
)

// StaffBlockout is time during which a staff member cannot be booked,
// independent of their weekly template.
type StaffBlockout struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Reason string `gorm:"size:20;default:'OTHER'" json:"reason"`
	Notes  string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsBlockoutReason(r string) bool {
	switch r {
	case BlockoutLeave, BlockoutLunch, BlockoutMeeting, BlockoutTraining, BlockoutOther:
		return true
	}
	return false
}
