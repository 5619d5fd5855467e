package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"table-reservation-backend/internal/booking"
)

// PostBook handles the POST /api/book request.
func (h *Handler) PostBook(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body",
		})
		return
	}

	res, err := h.bookings.Commit(c.Request.Context(), stringifyPayload(raw))
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"booking_id": res.BookingID,
		"message":    res.Message,
	})
}

// stringifyPayload flattens a decoded JSON body into the raw string
// payload the validator works on. Browsers send guests either as a
// string or a number depending on the form wiring.
func stringifyPayload(raw map[string]any) map[string]string {
	payload := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			payload[key] = ""
		case string:
			payload[key] = v
		case float64:
			if v == float64(int64(v)) {
				payload[key] = fmt.Sprintf("%d", int64(v))
			} else {
				payload[key] = fmt.Sprintf("%v", v)
			}
		default:
			payload[key] = fmt.Sprintf("%v", v)
		}
	}
	return payload
}

// writeBookingError maps the booking error taxonomy onto HTTP
// responses: validation, unknown-slot, unavailable and capacity
// rejections are 400s with a human-readable message; backend failures
// are 500s with the underlying error in a details field.
func writeBookingError(c *gin.Context, err error) {
	var vErr *booking.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": vErr.Message})
		return
	}

	if errors.Is(err, booking.ErrSlotNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Selected time slot does not exist"})
		return
	}
	if errors.Is(err, booking.ErrSlotUnavailable) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Selected time slot is not available"})
		return
	}

	var cErr *booking.CapacityError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": cErr.Error()})
		return
	}

	var bErr *booking.BackendError
	if errors.As(err, &bErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   bErr.Message,
			"details": bErr.Unwrap().Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Failed to process booking",
		"details": err.Error(),
	})
}
