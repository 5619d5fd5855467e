package model

import "time"

// Booking status values. Every submission attempt leaves exactly one
// row behind, successful or not.
const (
	BookingStatusSuccess = "success"
	BookingStatusFailed  = "failed"
)

// Booking is the durable audit record of a reservation attempt. Rows
// are written once and never updated or deleted by the service.
type Booking struct {
	BookingID       string `gorm:"primaryKey;size:32"`
	Name            string `gorm:"size:256;not null"`
	Phone           string `gorm:"size:64"`
	Email           string `gorm:"size:256;not null"`
	Date            string `gorm:"size:10;not null;index:idx_bookings_slot"`
	Time            string `gorm:"size:8;not null;index:idx_bookings_slot"`
	GuestCount      int    `gorm:"not null"`
	Occasion        string `gorm:"size:128"`
	SpecialRequests string `gorm:"size:1024"`
	Status          string `gorm:"size:16;not null"`
	ErrorMessage    string `gorm:"size:1024"`
	CreatedAt       time.Time
}
