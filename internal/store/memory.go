package store

import (
	"context"
	"sort"
	"sync"

	"table-reservation-backend/internal/model"
)

// MemoryStore is a Store backed by an in-process map guarded by a single
// mutex. It serves two purposes: tests use it to reproduce write
// interleavings deterministically, and the daemon falls back to it when
// no database DSN is configured so the service can still come up for
// local development.
type MemoryStore struct {
	mu       sync.Mutex
	slots    map[slotKey]model.Slot
	bookings []model.Booking

	// InsertErr is returned by the next InsertFailures calls to
	// InsertBooking; the Fail* errors are returned by every call to the
	// corresponding operation while set. Test hooks only.
	InsertErr      error
	InsertFailures int
	FailIncrement  error
	FailGet        error
	FailList       error
}

type slotKey struct {
	date     string
	timeSlot string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[slotKey]model.Slot)}
}

func (m *MemoryStore) GetSlot(ctx context.Context, date, timeSlot string) (model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailGet != nil {
		return model.Slot{}, m.FailGet
	}
	slot, ok := m.slots[slotKey{date, timeSlot}]
	if !ok {
		return model.Slot{}, ErrSlotNotFound
	}
	return slot, nil
}

func (m *MemoryStore) ListSlots(ctx context.Context, date string) ([]model.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailList != nil {
		return nil, m.FailList
	}
	var slots []model.Slot
	for key, slot := range m.slots {
		if key.date == date {
			slots = append(slots, slot)
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].TimeSlot < slots[j].TimeSlot })
	return slots, nil
}

func (m *MemoryStore) InsertBooking(ctx context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertErr != nil && m.InsertFailures != 0 {
		m.InsertFailures--
		return m.InsertErr
	}
	m.bookings = append(m.bookings, *booking)
	return nil
}

func (m *MemoryStore) IncrementSlot(ctx context.Context, date, timeSlot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailIncrement != nil {
		return m.FailIncrement
	}
	key := slotKey{date, timeSlot}
	slot, ok := m.slots[key]
	if !ok || slot.CurrentBookings >= slot.MaxCapacity {
		return ErrSlotFull
	}
	slot.CurrentBookings++
	slot.IsAvailable = slot.CurrentBookings < slot.MaxCapacity
	m.slots[key] = slot
	return nil
}

func (m *MemoryStore) SeedSlots(ctx context.Context, slots []model.Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, slot := range slots {
		key := slotKey{slot.Date, slot.TimeSlot}
		if _, exists := m.slots[key]; !exists {
			m.slots[key] = slot
		}
	}
	return nil
}

// PutSlot inserts or replaces a slot row, bypassing the seed-only
// semantics. Test helper.
func (m *MemoryStore) PutSlot(slot model.Slot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slotKey{slot.Date, slot.TimeSlot}] = slot
}

// Bookings returns a copy of every booking row written so far.
func (m *MemoryStore) Bookings() []model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Booking, len(m.bookings))
	copy(out, m.bookings)
	return out
}
