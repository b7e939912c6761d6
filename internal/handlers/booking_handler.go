package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devevent/server/internal/models"
	"github.com/devevent/server/internal/services"
)

type createBookingRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.BookingResponse{
				Success: false,
				Message: "event_id and email are required",
			})
			return
		}

		_, err := bs.CreateBooking(c.Request.Context(), req.EventID, req.Email)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrValidation):
				c.JSON(http.StatusBadRequest, models.BookingResponse{Success: false, Message: err.Error()})
			case errors.Is(err, models.ErrNotFound):
				c.JSON(http.StatusNotFound, models.BookingResponse{Success: false, Message: err.Error()})
			default:
				c.Error(err)
				c.JSON(http.StatusInternalServerError, models.BookingResponse{Success: false, Message: "Failed to create booking"})
			}
			return
		}

		c.JSON(http.StatusCreated, models.BookingResponse{Success: true})
	}
}

// CountBookings resolves the event by slug and reports how many bookings
// reference it.
func CountBookings(es *services.EventService, bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, badSlug := normalizeSlug(c.Param("slug"))
		if badSlug != nil {
			c.JSON(http.StatusBadRequest, badSlug)
			return
		}

		event, err := es.GetEventBySlug(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, models.NewErrorResponse("Event not found", err.Error()))
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch event", err.Error()))
			return
		}

		count, err := bs.CountForEvent(c.Request.Context(), event.ID)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Failed to count bookings", err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.CountResponse{
			Message: "Booking count fetched successfully",
			Count:   count,
		})
	}
}
