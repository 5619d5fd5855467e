package api

import (
	"table-reservation-backend/internal/booking"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	bookings *booking.Service
}

// NewHandler creates a new API handler.
func NewHandler(svc *booking.Service) *Handler {
	return &Handler{bookings: svc}
}
