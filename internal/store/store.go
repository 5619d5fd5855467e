package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"table-reservation-backend/internal/model"
)

// ErrSlotNotFound is returned by GetSlot when no row exists for the
// requested (date, time). Handlers translate it into a 400, not a 500:
// an unconfigured slot is a caller mistake, not a backend fault.
var ErrSlotNotFound = errors.New("slot not found")

// ErrSlotFull is returned by IncrementSlot when the capacity guard
// rejects the increment. The counter can never exceed max_capacity.
var ErrSlotFull = errors.New("slot is at capacity")

// Store defines the datastore operations the reservation protocol needs.
type Store interface {
	// GetSlot is a point lookup of one (date, time) capacity row.
	GetSlot(ctx context.Context, date, timeSlot string) (model.Slot, error)
	// ListSlots returns every capacity row for a date, ordered
	// ascending by time slot.
	ListSlots(ctx context.Context, date string) ([]model.Slot, error)
	// InsertBooking writes one immutable booking audit row.
	InsertBooking(ctx context.Context, booking *model.Booking) error
	// IncrementSlot adds one to current_bookings and recomputes
	// is_available as a single conditional update guarded by
	// current_bookings < max_capacity. ErrSlotFull when the guard fires.
	IncrementSlot(ctx context.Context, date, timeSlot string) error
	// SeedSlots creates any missing capacity rows. Existing rows are
	// left untouched; seeding never resets live counters.
	SeedSlots(ctx context.Context, slots []model.Slot) error
}

// gormStore implements Store using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) GetSlot(ctx context.Context, date, timeSlot string) (model.Slot, error) {
	var slot model.Slot
	err := s.db.WithContext(ctx).
		Where("date = ? AND time_slot = ?", date, timeSlot).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Slot{}, ErrSlotNotFound
	}
	if err != nil {
		return model.Slot{}, fmt.Errorf("failed to look up slot %s %s: %w", date, timeSlot, err)
	}
	return slot, nil
}

func (s *gormStore) ListSlots(ctx context.Context, date string) ([]model.Slot, error) {
	var slots []model.Slot
	if err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("time_slot ASC").
		Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("failed to list slots for %s: %w", date, err)
	}
	return slots, nil
}

func (s *gormStore) InsertBooking(ctx context.Context, booking *model.Booking) error {
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to insert booking %s: %w", booking.BookingID, err)
	}
	return nil
}

// IncrementSlot runs the check and the increment as one statement so the
// database enforces current_bookings <= max_capacity regardless of how
// many requests race past the application-tier capacity check. The SET
// expressions see the pre-update row, hence the +1 in both.
func (s *gormStore) IncrementSlot(ctx context.Context, date, timeSlot string) error {
	res := s.db.WithContext(ctx).Model(&model.Slot{}).
		Where("date = ? AND time_slot = ? AND current_bookings < max_capacity", date, timeSlot).
		Updates(map[string]interface{}{
			"current_bookings": gorm.Expr("current_bookings + 1"),
			"is_available":     gorm.Expr("current_bookings + 1 < max_capacity"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to increment slot %s %s: %w", date, timeSlot, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotFull
	}
	return nil
}

func (s *gormStore) SeedSlots(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}, {Name: "time_slot"}},
		DoNothing: true,
	}).Create(&slots).Error; err != nil {
		return fmt.Errorf("failed to seed %d slots: %w", len(slots), err)
	}
	return nil
}
