package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleBeautician = "beautician"
)

// User is a staff member: an admin or a bookable beautician.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;default:'beautician'" json:"role"`
	PhotoURL     string `gorm:"size:255" json:"photo_url"`
	Active       bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
