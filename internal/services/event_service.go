package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/devevent/server/internal/helpers"
	"github.com/devevent/server/internal/models"
)

type EventService struct {
	eventsRepo models.EventsRepo
	uploader   helpers.ImageUploader
}

func NewEventService(eventsRepo models.EventsRepo, uploader helpers.ImageUploader) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		uploader:   uploader,
	}
}

// CreateEventInput carries the parsed form fields of an event-creation
// request. Tags and agenda arrive already decoded from their JSON strings.
type CreateEventInput struct {
	Title       string   `validate:"required"`
	Description string   `validate:"required"`
	Overview    string
	Date        string   `validate:"required"`
	Time        string   `validate:"required"`
	Location    string   `validate:"required"`
	Venue       string
	Mode        string   `validate:"required"`
	Audience    string
	Organizer   string
	Tags        []string `validate:"required,min=1,dive,required"`
	Agenda      []string `validate:"required,min=1,dive,required"`
}

// NormalizeMode reduces a free-form mode value to one of online, offline or
// hybrid: the substring before the first whitespace or '(' character,
// lowercased and trimmed. Examples:
//
//	"hybrid (in-person & online)" -> "hybrid"
//	"online event"                -> "online"
//	"offline - in person"         -> "offline"
func NormalizeMode(raw string) (string, error) {
	mode := strings.TrimSpace(raw)
	if i := strings.IndexFunc(mode, func(r rune) bool {
		return unicode.IsSpace(r) || r == '('
	}); i >= 0 {
		mode = mode[:i]
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	switch mode {
	case models.ModeOnline, models.ModeOffline, models.ModeHybrid:
		return mode, nil
	}
	return "", fmt.Errorf("%w: mode must be one of online, offline or hybrid", models.ErrValidation)
}

// CreateEvent validates the input, uploads the image and persists the event.
// An upload failure aborts before anything is written; a persistence failure
// after upload leaves the uploaded image orphaned, which is accepted.
func (es *EventService) CreateEvent(ctx context.Context, input CreateEventInput, image io.Reader, filename string) (*models.Event, error) {
	mode, err := NormalizeMode(input.Mode)
	if err != nil {
		return nil, err
	}
	input.Mode = mode

	if err := models.Validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	slug := helpers.GenerateSlug(input.Title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title must contain at least one letter or digit", models.ErrValidation)
	}

	uploaded, err := es.uploader.UploadImage(ctx, image, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}

	event := &models.Event{
		Title:       strings.TrimSpace(input.Title),
		Slug:        slug,
		Description: input.Description,
		Overview:    input.Overview,
		Image:       uploaded.SecureURL,
		Date:        input.Date,
		Time:        input.Time,
		Location:    input.Location,
		Venue:       input.Venue,
		Mode:        input.Mode,
		Audience:    input.Audience,
		Organizer:   input.Organizer,
		Agenda:      input.Agenda,
		Tags:        input.Tags,
	}

	return es.eventsRepo.CreateEvent(ctx, event)
}

func (es *EventService) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", models.ErrValidation)
	}
	return es.eventsRepo.GetEventBySlug(ctx, slug)
}

func (es *EventService) GetSimilarEvents(ctx context.Context, slug string) ([]*models.Event, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", models.ErrValidation)
	}
	return es.eventsRepo.GetSimilarEvents(ctx, slug)
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}
