package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Slug        string             `bson:"slug" json:"slug" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Overview    string             `bson:"overview" json:"overview"`
	Image       string             `bson:"image" json:"image" validate:"required,url"`
	Date        string             `bson:"date" json:"date" validate:"required"`         // e.g., "May 15-17, 2024"
	Time        string             `bson:"time" json:"time" validate:"required"`         // e.g., "9:00 AM - 6:00 PM"
	Location    string             `bson:"location" json:"location" validate:"required"` // e.g., "Las Vegas, NV"
	Venue       string             `bson:"venue" json:"venue"`
	Mode        string             `bson:"mode" json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string             `bson:"audience" json:"audience"`
	Organizer   string             `bson:"organizer" json:"organizer"`
	Agenda      []string           `bson:"agenda" json:"agenda" validate:"required,min=1,dive,required"`
	Tags        []string           `bson:"tags" json:"tags" validate:"required,min=1,dive,required"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// BeforeCreate assigns an id and timestamps prior to insertion.
func (e *Event) BeforeCreate() {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
}
