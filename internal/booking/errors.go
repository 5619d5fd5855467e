// Package booking implements the slot reservation protocol: payload
// validation, the capacity acceptance policy, the booking commit
// sequence and its best-effort failure bookkeeping.
package booking

import (
	"errors"
	"fmt"
)

// ErrSlotNotFound is returned when the requested (date, time) has no
// configured capacity row. A caller mistake, not a backend fault.
var ErrSlotNotFound = errors.New("selected time slot does not exist")

// ErrSlotUnavailable is returned when the slot exists but is flagged
// unavailable.
var ErrSlotUnavailable = errors.New("selected time slot is not available")

// ValidationError reports the first rejected input field. Validation
// fails fast, so a payload with several problems surfaces them one at
// a time.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// CapacityError reports a rejection by the active acceptance policy.
type CapacityError struct {
	Mode      CapacityMode
	Remaining int
	Requested int
}

func (e *CapacityError) Error() string {
	if e.Mode == ModeSeats {
		return fmt.Sprintf("Only %d seats available for this time slot", e.Remaining)
	}
	return "This time slot is fully booked"
}

// BackendError wraps a datastore failure. Handlers translate it into a
// 500 carrying Message, with the underlying error passed through in a
// details field as a deliberate operability trade-off.
type BackendError struct {
	Message string
	Err     error
}

func (e *BackendError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }

func (e *BackendError) Unwrap() error { return e.Err }
