package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"table-reservation-backend/internal/booking"
	"table-reservation-backend/internal/parse"
)

// GetAvailability handles the GET /api/availability?date=YYYY-MM-DD
// request. The response lists the still-open times for the date in
// ascending order, at HH:MM precision.
func (h *Handler) GetAvailability(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Date parameter is required",
		})
		return
	}

	date, err := parse.Date(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid date: expected YYYY-MM-DD",
		})
		return
	}

	times, err := h.bookings.ListOpenTimes(c.Request.Context(), date)
	if err != nil {
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
			"error":   "Failed to fetch availability",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"date":            date,
		"available_times": times,
	})
}
