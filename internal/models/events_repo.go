package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	GetSimilarEvents(ctx context.Context, slug string) ([]*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, err
	}

	event.BeforeCreate()

	if _, err := col.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: an event with slug %q already exists", ErrValidation, event.Slug)
		}
		return nil, fmt.Errorf("failed to insert event: %v", err)
	}

	return event, nil
}

func (mdb *MongodbRepo) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, err
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"slug": slug}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: no event found for slug %q", ErrNotFound, slug)
		}
		return nil, fmt.Errorf("failed to find event by slug: %v", err)
	}

	return &event, nil
}

// GetSimilarEvents returns every event sharing at least one tag with the
// event identified by slug, excluding that event itself. A missing base
// event or one without tags yields an empty slice, not an error.
func (mdb *MongodbRepo) GetSimilarEvents(ctx context.Context, slug string) ([]*Event, error) {
	base, err := mdb.GetEventBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []*Event{}, nil
		}
		return nil, err
	}
	if len(base.Tags) == 0 {
		return []*Event{}, nil
	}

	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":  bson.M{"$ne": base.ID},
		"tags": bson.M{"$in": base.Tags},
	}
	cursor, err := col.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find similar events: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeEvents(ctx, cursor)
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventDbName, EventColName)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %v", err)
	}
	defer cursor.Close(ctx)

	return decodeEvents(ctx, cursor)
}

func decodeEvents(ctx context.Context, cursor *mongo.Cursor) ([]*Event, error) {
	events := []*Event{}
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %v", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return events, nil
}

// EnsureIndexes creates the indexes the query paths depend on: the unique
// slug constraint, the tags index behind similar-event lookups, and the
// booking indexes for per-event counts. It takes the client directly so the
// connection manager can run it as a post-dial hook.
func EnsureIndexes(ctx context.Context, client *mongo.Client) error {
	events := client.Database(EventDbName).Collection(EventColName)
	_, err := events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create event indexes: %v", err)
	}

	bookings := client.Database(EventDbName).Collection(BookingColName)
	_, err = bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "event_id", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "event_id", Value: 1}, {Key: "email", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %v", err)
	}

	return nil
}
