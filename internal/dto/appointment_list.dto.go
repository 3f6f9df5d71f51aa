package dto

import "time"

type AppointmentListDTO struct {
	ID           uint      `json:"id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Status       string    `json:"status"`
	Confirmation string    `json:"confirmation"`
	ClientName   string    `json:"client_name"`
	ServiceName  string    `json:"service_name"`
	StaffName    string    `json:"staff_name"`
}

type HistoryEntryDTO struct {
	ID            uint      `json:"id"`
	AppointmentID *uint     `json:"appointment_id"`
	ServiceID     uint      `json:"service_id"`
	StaffID       uint      `json:"staff_id"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
}
