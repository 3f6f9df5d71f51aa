package models

import "time"

// WorkingHours is one sub-range of a staff member's weekly template.
// A weekday may carry several ordered sub-ranges (split shifts); a weekday
// with no rows means the staff member does not work that day.
type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index" json:"staff_id"`

	Weekday  int `json:"weekday"`
	Position int `json:"position"`

	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
