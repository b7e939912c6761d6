package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingsRepo interface {
	CreateBooking(ctx context.Context, eventID primitive.ObjectID, email string) (*Booking, error)
	CountBookingsForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

// CreateBooking inserts a booking after verifying the referenced event
// exists. The existence check and the insert are two separate operations;
// events are never deleted in this application, so the gap is tolerated.
func (mdb *MongodbRepo) CreateBooking(ctx context.Context, eventID primitive.ObjectID, email string) (*Booking, error) {
	events, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, err
	}

	err = events.FindOne(ctx, bson.M{"_id": eventID}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: event with ID %s does not exist", ErrNotFound, eventID.Hex())
		}
		return nil, fmt.Errorf("failed to validate event reference: %v", err)
	}

	booking := &Booking{
		EventID: eventID,
		Email:   email,
	}
	booking.BeforeCreate()

	col, err := mdb.GetCollection(ctx, EventDbName, BookingColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %v", err)
	}

	return booking, nil
}

// CountBookingsForEvent returns the number of bookings referencing the given
// event. An unknown event id simply counts zero.
func (mdb *MongodbRepo) CountBookingsForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, BookingColName)
	if err != nil {
		return 0, err
	}

	count, err := col.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %v", err)
	}
	return count, nil
}
