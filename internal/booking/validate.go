package booking

import (
	"fmt"
	"strconv"
	"strings"

	"table-reservation-backend/internal/parse"
)

// Guest count bounds accepted by the form.
const (
	MinGuests = 1
	MaxGuests = 20
)

// requiredFields is the fixed check order. Validation stops at the
// first missing field.
var requiredFields = []string{"name", "email", "date", "time", "guests"}

// Validated holds a booking payload after validation and coercion.
// Optional fields default to the empty string.
type Validated struct {
	Name            string
	Phone           string
	Email           string
	Date            string
	Time            string
	Guests          int
	Occasion        string
	SpecialRequests string
}

// Validate checks the raw form payload and coerces it into a Validated
// booking. It has no side effects and touches no datastore.
func Validate(payload map[string]string) (Validated, error) {
	for _, field := range requiredFields {
		if strings.TrimSpace(payload[field]) == "" {
			return Validated{}, &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("Missing required field: %s", field),
			}
		}
	}

	date, err := parse.Date(payload["date"])
	if err != nil {
		return Validated{}, &ValidationError{Field: "date", Message: "Invalid date: expected YYYY-MM-DD"}
	}

	timeSlot, err := parse.TimeOfDay(payload["time"])
	if err != nil {
		return Validated{}, &ValidationError{Field: "time", Message: "Invalid time: expected HH:MM"}
	}

	guests, err := strconv.Atoi(strings.TrimSpace(payload["guests"]))
	if err != nil {
		return Validated{}, &ValidationError{Field: "guests", Message: "Guest count must be a whole number"}
	}
	if guests < MinGuests || guests > MaxGuests {
		return Validated{}, &ValidationError{
			Field:   "guests",
			Message: fmt.Sprintf("Guest count must be between %d and %d", MinGuests, MaxGuests),
		}
	}

	return Validated{
		Name:            strings.TrimSpace(payload["name"]),
		Phone:           strings.TrimSpace(payload["phone"]),
		Email:           strings.TrimSpace(payload["email"]),
		Date:            date,
		Time:            timeSlot,
		Guests:          guests,
		Occasion:        strings.TrimSpace(payload["occasion"]),
		SpecialRequests: strings.TrimSpace(payload["specialRequests"]),
	}, nil
}
