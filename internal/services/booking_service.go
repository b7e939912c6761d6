package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devevent/server/internal/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type BookingService struct {
	bookingsRepo models.BookingsRepo
}

func NewBookingService(bookingsRepo models.BookingsRepo) *BookingService {
	return &BookingService{
		bookingsRepo: bookingsRepo,
	}
}

// CreateBooking normalizes and validates the email, resolves the event id
// and persists the booking. Repeat bookings for the same event and email are
// allowed.
func (bs *BookingService) CreateBooking(ctx context.Context, eventID, email string) (*models.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: please provide a valid email address", models.ErrValidation)
	}

	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(eventID))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid event ID format", models.ErrValidation)
	}

	return bs.bookingsRepo.CreateBooking(ctx, id, email)
}

func (bs *BookingService) CountForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return bs.bookingsRepo.CountBookingsForEvent(ctx, eventID)
}
