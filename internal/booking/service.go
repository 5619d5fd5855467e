package booking

import (
	"context"
	"errors"
	"fmt"
	"log"

	"table-reservation-backend/internal/model"
	"table-reservation-backend/internal/parse"
	"table-reservation-backend/internal/store"
)

// CapacityMode selects how remaining capacity is counted when a booking
// is accepted or rejected. The active mode is explicit configuration;
// the two policies are never mixed.
type CapacityMode string

const (
	// ModeSeats counts capacity in seats: a party of N needs N
	// remaining units.
	ModeSeats CapacityMode = "seats"
	// ModeBookings counts capacity in reservations: any party size
	// consumes one unit.
	ModeBookings CapacityMode = "bookings"
)

// ParseCapacityMode validates a configured mode string.
func ParseCapacityMode(s string) (CapacityMode, error) {
	switch CapacityMode(s) {
	case ModeSeats, ModeBookings:
		return CapacityMode(s), nil
	}
	return "", fmt.Errorf("unknown capacity mode %q (want %q or %q)", s, ModeSeats, ModeBookings)
}

// Safe defaults substituted by the failure logger when the original
// payload is missing or unparsable.
const (
	unknownName  = "Unknown"
	unknownEmail = "unknown@example.com"
	defaultDate  = "1900-01-01"
	defaultTime  = "00:00"
)

const confirmedMessage = "Booking submitted successfully! Your reservation has been confirmed."

// Result is the outcome of an accepted booking.
type Result struct {
	BookingID string
	Message   string
}

// Service orchestrates the reservation commit sequence against the
// injected store.
type Service struct {
	store store.Store
	ids   *IDGenerator
	mode  CapacityMode
}

// NewService creates a booking service with the given acceptance mode.
func NewService(s store.Store, ids *IDGenerator, mode CapacityMode) *Service {
	return &Service{store: s, ids: ids, mode: mode}
}

// Mode reports the active acceptance policy.
func (s *Service) Mode() CapacityMode { return s.mode }

// Commit runs the reservation protocol for one raw form payload:
// validate, look up the slot, apply the capacity policy, insert the
// booking row, then increment the slot counter.
//
// The insert and the increment are two independent writes with no
// transaction across them. An increment failure after a successful
// insert is logged and swallowed: the booking has already been
// accepted, so the request still succeeds and the counter is left
// stale low until reconciled.
func (s *Service) Commit(ctx context.Context, payload map[string]string) (Result, error) {
	validated, err := Validate(payload)
	if err != nil {
		return Result{}, err
	}

	slot, err := s.store.GetSlot(ctx, validated.Date, validated.Time)
	if errors.Is(err, store.ErrSlotNotFound) {
		return Result{}, ErrSlotNotFound
	}
	if err != nil {
		return Result{}, &BackendError{Message: "Failed to check availability", Err: err}
	}

	if !slot.IsAvailable {
		return Result{}, ErrSlotUnavailable
	}

	if err := s.checkCapacity(slot, validated.Guests); err != nil {
		return Result{}, err
	}

	record := &model.Booking{
		BookingID:       s.ids.Next(),
		Name:            validated.Name,
		Phone:           validated.Phone,
		Email:           validated.Email,
		Date:            validated.Date,
		Time:            validated.Time,
		GuestCount:      validated.Guests,
		Occasion:        validated.Occasion,
		SpecialRequests: validated.SpecialRequests,
		Status:          model.BookingStatusSuccess,
	}

	if err := s.store.InsertBooking(ctx, record); err != nil {
		// Best-effort audit row for the failed attempt. Its own result
		// is logged and deliberately discarded.
		if logErr := s.LogFailure(ctx, payload, err); logErr != nil {
			log.Printf("failed to log failed booking: %v", logErr)
		}
		return Result{}, &BackendError{Message: "Failed to process booking", Err: err}
	}

	if err := s.store.IncrementSlot(ctx, validated.Date, validated.Time); err != nil {
		// The booking is already confirmed; a counter failure must not
		// fail the request.
		log.Printf("booking %s accepted but slot %s %s was not incremented: %v",
			record.BookingID, validated.Date, validated.Time, err)
	}

	return Result{BookingID: record.BookingID, Message: confirmedMessage}, nil
}

// checkCapacity applies the active acceptance policy to the slot's
// remaining capacity.
func (s *Service) checkCapacity(slot model.Slot, guests int) error {
	remaining := slot.Remaining()
	switch s.mode {
	case ModeBookings:
		if remaining <= 0 {
			return &CapacityError{Mode: ModeBookings, Remaining: remaining, Requested: guests}
		}
	default:
		if guests > remaining {
			return &CapacityError{Mode: ModeSeats, Remaining: remaining, Requested: guests}
		}
	}
	return nil
}

// ListOpenTimes returns the times still open for booking on a date,
// ascending, at HH:MM precision. A slot counts as open only when both
// its cached availability flag and its counters say so; the flag can
// lag the counters between the booking insert and the increment.
func (s *Service) ListOpenTimes(ctx context.Context, date string) ([]string, error) {
	slots, err := s.store.ListSlots(ctx, date)
	if err != nil {
		return nil, &BackendError{Message: "Failed to fetch availability", Err: err}
	}

	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		if !slot.IsAvailable || slot.Remaining() <= 0 {
			continue
		}
		t := slot.TimeSlot
		if normalized, err := parse.TimeOfDay(t); err == nil {
			t = normalized
		}
		times = append(times, t)
	}
	return times, nil
}

// LogFailure writes a failed booking audit row carrying the error
// message, substituting safe defaults for anything missing or
// unparsable in the original payload. It is a diagnostic sink: callers
// log its returned error and move on, and it never panics.
func (s *Service) LogFailure(ctx context.Context, payload map[string]string, cause error) error {
	record := &model.Booking{
		BookingID:       s.ids.Next(),
		Name:            orDefault(payload["name"], unknownName),
		Phone:           payload["phone"],
		Email:           orDefault(payload["email"], unknownEmail),
		Date:            orDefault(payload["date"], defaultDate),
		Time:            orDefault(payload["time"], defaultTime),
		GuestCount:      guestCountOrZero(payload["guests"]),
		Occasion:        payload["occasion"],
		SpecialRequests: payload["specialRequests"],
		Status:          model.BookingStatusFailed,
		ErrorMessage:    cause.Error(),
	}
	return s.store.InsertBooking(ctx, record)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func guestCountOrZero(raw string) int {
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil || n < 0 {
		return 0
	}
	return n
}
