package model

import "time"

// Slot represents the bookable capacity of a single (date, time) unit.
// Rows are provisioned out-of-band (seed data); the service only reads
// them and increments CurrentBookings.
type Slot struct {
	Date            string `gorm:"column:date;primaryKey;size:10"`     // YYYY-MM-DD
	TimeSlot        string `gorm:"column:time_slot;primaryKey;size:8"` // HH:MM
	IsAvailable     bool   `gorm:"column:is_available;not null"`
	CurrentBookings int    `gorm:"column:current_bookings;not null"`
	MaxCapacity     int    `gorm:"column:max_capacity;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName maps Slot onto the availability table.
func (Slot) TableName() string { return "availability" }

// Remaining is the capacity still open on the slot.
func (s Slot) Remaining() int {
	return s.MaxCapacity - s.CurrentBookings
}
