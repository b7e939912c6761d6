package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/devevent/server/internal/connect"
)

var Validate = validator.New()

const (
	EventDbName    = "devevent"
	EventColName   = "events"
	BookingColName = "bookings"
)

// MongodbRepo backs both the events and bookings repositories. The connection
// manager is injected so the client is dialed lazily on first use.
type MongodbRepo struct {
	conn *connect.Manager
}

func MongodbNewRepo(conn *connect.Manager) *MongodbRepo {
	return &MongodbRepo{
		conn: conn,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, dbName, colName string) (*mongo.Collection, error) {
	client, err := mdb.conn.Client(ctx)
	if err != nil {
		if errors.Is(err, connect.ErrMissingURI) {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return client.Database(dbName).Collection(colName), nil
}
