package booking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-reservation-backend/internal/model"
	"table-reservation-backend/internal/store"
)

func newTestService(s store.Store, mode CapacityMode) *Service {
	var calls int64
	ids := NewIDGeneratorWithSource(
		func() time.Time { return time.UnixMilli(1700000000000) },
		func(int) int { return int(atomic.AddInt64(&calls, 1)) },
	)
	return NewService(s, ids, mode)
}

func seedSlot(m *store.MemoryStore, current, max int, available bool) {
	m.PutSlot(model.Slot{
		Date: "2025-12-24", TimeSlot: "18:30",
		IsAvailable: available, CurrentBookings: current, MaxCapacity: max,
	})
}

func TestCommitAcceptsAndIncrements(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	seedSlot(m, 3, 10, true)
	svc := newTestService(m, ModeSeats)

	res, err := svc.Commit(ctx, validPayload())
	require.NoError(t, err)
	assert.NotEmpty(t, res.BookingID)
	assert.NotEmpty(t, res.Message)

	bookings := m.Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, res.BookingID, bookings[0].BookingID)
	assert.Equal(t, model.BookingStatusSuccess, bookings[0].Status)
	assert.Equal(t, 2, bookings[0].GuestCount)

	slot, err := m.GetSlot(ctx, "2025-12-24", "18:30")
	require.NoError(t, err)
	assert.Equal(t, 4, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)
}

func TestCommitRejections(t *testing.T) {
	testCases := []struct {
		name    string
		mode    CapacityMode
		seed    func(m *store.MemoryStore)
		payload func() map[string]string
		check   func(t *testing.T, err error)
	}{
		{
			name: "Validation failure never reaches the store",
			mode: ModeSeats,
			seed: func(m *store.MemoryStore) {},
			payload: func() map[string]string {
				p := validPayload()
				delete(p, "email")
				return p
			},
			check: func(t *testing.T, err error) {
				var vErr *ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "email", vErr.Field)
			},
		},
		{
			name:    "Unknown slot",
			mode:    ModeSeats,
			seed:    func(m *store.MemoryStore) {},
			payload: validPayload,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSlotNotFound)
			},
		},
		{
			name:    "Slot flagged unavailable",
			mode:    ModeSeats,
			seed:    func(m *store.MemoryStore) { seedSlot(m, 0, 10, false) },
			payload: validPayload,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrSlotUnavailable)
			},
		},
		{
			name: "Seat mode rejects a party larger than the remainder",
			mode: ModeSeats,
			seed: func(m *store.MemoryStore) { seedSlot(m, 8, 10, true) },
			payload: func() map[string]string {
				p := validPayload()
				p["guests"] = "3"
				return p
			},
			check: func(t *testing.T, err error) {
				var cErr *CapacityError
				require.ErrorAs(t, err, &cErr)
				assert.Equal(t, ModeSeats, cErr.Mode)
				assert.Equal(t, 2, cErr.Remaining)
				assert.Contains(t, cErr.Error(), "Only 2 seats")
			},
		},
		{
			name:    "Booking mode rejects a full slot even when the flag is stale",
			mode:    ModeBookings,
			seed:    func(m *store.MemoryStore) { seedSlot(m, 10, 10, true) },
			payload: validPayload,
			check: func(t *testing.T, err error) {
				var cErr *CapacityError
				require.ErrorAs(t, err, &cErr)
				assert.Equal(t, ModeBookings, cErr.Mode)
				assert.Contains(t, cErr.Error(), "fully booked")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := store.NewMemoryStore()
			tc.seed(m)
			svc := newTestService(m, tc.mode)

			_, err := svc.Commit(context.Background(), tc.payload())
			require.Error(t, err)
			tc.check(t, err)

			assert.Empty(t, m.Bookings(), "rejections must not write booking rows")
		})
	}
}

func TestCommitBookingModeIgnoresPartySize(t *testing.T) {
	// One remaining unit admits a party of any size in booking mode.
	ctx := context.Background()
	m := store.NewMemoryStore()
	seedSlot(m, 9, 10, true)
	svc := newTestService(m, ModeBookings)

	payload := validPayload()
	payload["guests"] = "15"

	_, err := svc.Commit(ctx, payload)
	require.NoError(t, err)

	slot, _ := m.GetSlot(ctx, "2025-12-24", "18:30")
	assert.Equal(t, 10, slot.CurrentBookings)
	assert.False(t, slot.IsAvailable)
}

func TestCommitInsertFailureLogsFailedBooking(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	seedSlot(m, 0, 10, true)
	m.InsertErr = errors.New("connection refused")
	m.InsertFailures = 1 // the success row fails, the audit row lands
	svc := newTestService(m, ModeSeats)

	_, err := svc.Commit(ctx, validPayload())

	var bErr *BackendError
	require.ErrorAs(t, err, &bErr)

	bookings := m.Bookings()
	require.Len(t, bookings, 1)
	assert.Equal(t, model.BookingStatusFailed, bookings[0].Status)
	assert.Contains(t, bookings[0].ErrorMessage, "connection refused")

	slot, _ := m.GetSlot(ctx, "2025-12-24", "18:30")
	assert.Equal(t, 0, slot.CurrentBookings, "a failed insert must not consume capacity")
}

func TestCommitSwallowsFailureLoggerErrors(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	seedSlot(m, 0, 10, true)
	m.InsertErr = errors.New("datastore down")
	m.InsertFailures = -1 // every insert fails, including the audit row
	svc := newTestService(m, ModeSeats)

	_, err := svc.Commit(ctx, validPayload())

	var bErr *BackendError
	require.ErrorAs(t, err, &bErr)
	assert.Empty(t, m.Bookings())
}

func TestCommitIncrementFailureIsPartialSuccess(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	seedSlot(m, 0, 10, true)
	m.FailIncrement = errors.New("connection reset")
	svc := newTestService(m, ModeSeats)

	res, err := svc.Commit(ctx, validPayload())
	require.NoError(t, err, "the booking is already confirmed when the increment fails")
	assert.NotEmpty(t, res.BookingID)

	require.Len(t, m.Bookings(), 1)
	slot, _ := m.GetSlot(ctx, "2025-12-24", "18:30")
	assert.Equal(t, 0, slot.CurrentBookings, "counter is left stale low, never high")
}

// gatedStore delays both rival requests until each has read the slot,
// pinning the read-check-write interleaving that overbooks.
type gatedStore struct {
	store.Store
	reads *sync.WaitGroup
}

func (g *gatedStore) GetSlot(ctx context.Context, date, timeSlot string) (model.Slot, error) {
	slot, err := g.Store.GetSlot(ctx, date, timeSlot)
	g.reads.Done()
	g.reads.Wait()
	return slot, err
}

func TestCommitRaceNeverOvercountsCapacity(t *testing.T) {
	// Two concurrent requests both read remaining=1 and both pass the
	// capacity check: the observed, documented gap admits both booking
	// rows. The counter itself is guarded by the store's conditional
	// increment, so it still never exceeds max_capacity.
	ctx := context.Background()
	m := store.NewMemoryStore()
	m.PutSlot(model.Slot{
		Date: "2025-12-24", TimeSlot: "18:30",
		IsAvailable: true, CurrentBookings: 9, MaxCapacity: 10,
	})

	var reads sync.WaitGroup
	reads.Add(2)
	gated := &gatedStore{Store: m, reads: &reads}
	svc := newTestService(gated, ModeBookings)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Commit(ctx, validPayload())
		}(i)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])

	// Both attempts passed the stale check and left success rows.
	assert.Len(t, m.Bookings(), 2)

	// The invariant current_bookings <= max_capacity holds regardless.
	slot, err := m.GetSlot(ctx, "2025-12-24", "18:30")
	require.NoError(t, err)
	assert.Equal(t, 10, slot.CurrentBookings)
	assert.False(t, slot.IsAvailable)
}

func TestListOpenTimes(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	m.PutSlot(model.Slot{Date: "2025-12-24", TimeSlot: "20:30", IsAvailable: true, CurrentBookings: 0, MaxCapacity: 10})
	m.PutSlot(model.Slot{Date: "2025-12-24", TimeSlot: "17:00:00", IsAvailable: true, CurrentBookings: 2, MaxCapacity: 10})
	// Stale flag: marked available but no capacity left.
	m.PutSlot(model.Slot{Date: "2025-12-24", TimeSlot: "18:00", IsAvailable: true, CurrentBookings: 10, MaxCapacity: 10})
	m.PutSlot(model.Slot{Date: "2025-12-24", TimeSlot: "19:00", IsAvailable: false, CurrentBookings: 0, MaxCapacity: 10})

	svc := newTestService(m, ModeSeats)

	times, err := svc.ListOpenTimes(ctx, "2025-12-24")
	require.NoError(t, err)
	assert.Equal(t, []string{"17:00", "20:30"}, times)
}

func TestListOpenTimesEmptyDate(t *testing.T) {
	svc := newTestService(store.NewMemoryStore(), ModeSeats)
	times, err := svc.ListOpenTimes(context.Background(), "2025-12-31")
	require.NoError(t, err)
	assert.Empty(t, times)
}

func TestLogFailureDefaults(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemoryStore()
	svc := newTestService(m, ModeSeats)

	cause := errors.New("backend exploded")
	require.NoError(t, svc.LogFailure(ctx, map[string]string{"guests": "nope"}, cause))

	bookings := m.Bookings()
	require.Len(t, bookings, 1)
	b := bookings[0]
	assert.Equal(t, model.BookingStatusFailed, b.Status)
	assert.Equal(t, "Unknown", b.Name)
	assert.Equal(t, "unknown@example.com", b.Email)
	assert.Equal(t, "1900-01-01", b.Date)
	assert.Equal(t, "00:00", b.Time)
	assert.Equal(t, 0, b.GuestCount)
	assert.Equal(t, "backend exploded", b.ErrorMessage)
}

func TestParseCapacityMode(t *testing.T) {
	mode, err := ParseCapacityMode("seats")
	require.NoError(t, err)
	assert.Equal(t, ModeSeats, mode)

	mode, err = ParseCapacityMode("bookings")
	require.NoError(t, err)
	assert.Equal(t, ModeBookings, mode)

	_, err = ParseCapacityMode("guesswork")
	assert.Error(t, err)
}
