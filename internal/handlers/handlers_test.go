package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/devevent/server/internal/helpers"
	"github.com/devevent/server/internal/models"
	"github.com/devevent/server/internal/services"
)

type fakeEventsRepo struct {
	bySlug  map[string]*models.Event
	similar map[string][]*models.Event
	created []*models.Event
	queries int
}

func (f *fakeEventsRepo) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.BeforeCreate()
	f.created = append(f.created, event)
	return event, nil
}

func (f *fakeEventsRepo) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	f.queries++
	event, ok := f.bySlug[slug]
	if !ok {
		return nil, models.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventsRepo) GetSimilarEvents(ctx context.Context, slug string) ([]*models.Event, error) {
	f.queries++
	events := f.similar[slug]
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

func (f *fakeEventsRepo) ListEvents(ctx context.Context) ([]*models.Event, error) {
	f.queries++
	return f.created, nil
}

type fakeBookingsRepo struct {
	bookings []*models.Booking
	eventIDs map[primitive.ObjectID]bool
}

func (f *fakeBookingsRepo) CreateBooking(ctx context.Context, eventID primitive.ObjectID, email string) (*models.Booking, error) {
	if !f.eventIDs[eventID] {
		return nil, models.ErrNotFound
	}
	booking := &models.Booking{EventID: eventID, Email: email}
	booking.BeforeCreate()
	f.bookings = append(f.bookings, booking)
	return booking, nil
}

func (f *fakeBookingsRepo) CountBookingsForEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.EventID == eventID {
			count++
		}
	}
	return count, nil
}

type stubUploader struct{}

func (stubUploader) UploadImage(ctx context.Context, image io.Reader, filename string) (*helpers.UploadResult, error) {
	return &helpers.UploadResult{
		SecureURL: "https://res.cloudinary.com/demo/DevEvent/" + filename,
		PublicID:  "DevEvent/" + filename,
	}, nil
}

func newTestRouter(er models.EventsRepo, br models.BookingsRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	es := services.NewEventService(er, stubUploader{})
	bs := services.NewBookingService(br)

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/events", ListEvents(es))
	v1.POST("/events", CreateEvent(es))
	v1.GET("/events/:slug", GetEventBySlug(es))
	v1.GET("/events/:slug/similar", GetSimilarEvents(es))
	v1.GET("/events/:slug/bookings/count", CountBookings(es, bs))
	v1.POST("/bookings", CreateBooking(bs))
	return r
}

func validEventFields() map[string]string {
	return map[string]string{
		"title":       "React Conf 2024",
		"description": "The biggest React conference",
		"overview":    "Three days of talks and workshops",
		"date":        "May 15-17, 2024",
		"time":        "9:00 AM - 6:00 PM",
		"location":    "Las Vegas, NV",
		"venue":       "Convention Center",
		"mode":        "Online Only",
		"audience":    "Developers",
		"organizer":   "React Team",
		"tags":        `["ai","ml"]`,
		"agenda":      `["Intro","Workshop"]`,
	}
}

func eventForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if withImage {
		fw, err := w.CreateFormFile("image", "banner.png")
		require.NoError(t, err)
		_, err = fw.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestGetEventBySlug(t *testing.T) {
	event := &models.Event{ID: primitive.NewObjectID(), Slug: "react-conf-2024", Title: "React Conf 2024"}
	repo := &fakeEventsRepo{bySlug: map[string]*models.Event{"react-conf-2024": event}}
	router := newTestRouter(repo, &fakeBookingsRepo{})

	t.Run("found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/react-conf-2024", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Event fetched successfully", resp.Message)
		require.Equal(t, "react-conf-2024", resp.Event.Slug)
	})

	t.Run("uppercase slug is normalized", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/React-Conf-2024", nil)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/vue-js-london", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Event not found", resp.Message)
	})

	t.Run("malformed slug never queries the store", func(t *testing.T) {
		before := repo.queries
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/bad_slug!", nil)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, before, repo.queries)
	})
}

func TestGetSimilarEvents(t *testing.T) {
	base := &models.Event{ID: primitive.NewObjectID(), Slug: "react-conf-2024", Tags: []string{"ai"}}
	other := &models.Event{ID: primitive.NewObjectID(), Slug: "jsconf-eu", Tags: []string{"ai", "web"}}
	repo := &fakeEventsRepo{
		bySlug:  map[string]*models.Event{"react-conf-2024": base},
		similar: map[string][]*models.Event{"react-conf-2024": {other}},
	}
	router := newTestRouter(repo, &fakeBookingsRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/react-conf-2024/similar", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	require.Equal(t, "jsconf-eu", resp.Events[0].Slug)

	// Unknown base event yields an empty list, not an error.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/events/unknown-slug/similar", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Events)
}

func TestListEvents(t *testing.T) {
	repo := &fakeEventsRepo{}
	router := newTestRouter(repo, &fakeBookingsRepo{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.EventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Events fetched successfully", resp.Message)
	require.Empty(t, resp.Events)
}

func TestCreateEvent(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := &fakeEventsRepo{}
		router := newTestRouter(repo, &fakeBookingsRepo{})

		body, contentType := eventForm(t, validEventFields(), true)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
		req.Header.Set("Content-Type", contentType)
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp models.EventResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Event created successfully", resp.Message)
		require.Equal(t, "online", resp.Event.Mode)
		require.Equal(t, []string{"ai", "ml"}, resp.Event.Tags)
		require.Equal(t, []string{"Intro", "Workshop"}, resp.Event.Agenda)
		require.Equal(t, "https://res.cloudinary.com/demo/DevEvent/banner.png", resp.Event.Image)
		require.Len(t, repo.created, 1)
	})

	rejections := []struct {
		name        string
		mut         func(fields map[string]string)
		withImage   bool
		wantMessage string
	}{
		{
			name:        "missing image",
			mut:         func(fields map[string]string) {},
			withImage:   false,
			wantMessage: "Image file is required",
		},
		{
			name:        "invalid mode",
			mut:         func(fields map[string]string) { fields["mode"] = "in-person" },
			withImage:   true,
			wantMessage: "Invalid mode value",
		},
		{
			name:        "missing tags",
			mut:         func(fields map[string]string) { delete(fields, "tags") },
			withImage:   true,
			wantMessage: "Invalid tags format",
		},
		{
			name:        "tags not json",
			mut:         func(fields map[string]string) { fields["tags"] = `["ai",` },
			withImage:   true,
			wantMessage: "Invalid tags value",
		},
		{
			name:        "empty agenda",
			mut:         func(fields map[string]string) { fields["agenda"] = `[]` },
			withImage:   true,
			wantMessage: "Invalid agenda value",
		},
		{
			name:        "missing title",
			mut:         func(fields map[string]string) { delete(fields, "title") },
			withImage:   true,
			wantMessage: "Invalid event data",
		},
	}

	for _, tt := range rejections {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeEventsRepo{}
			router := newTestRouter(repo, &fakeBookingsRepo{})

			fields := validEventFields()
			tt.mut(fields)
			body, contentType := eventForm(t, fields, tt.withImage)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/events", body)
			req.Header.Set("Content-Type", contentType)
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			var resp models.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.wantMessage, resp.Message)
			require.Empty(t, repo.created, "rejected requests must not persist an event")
		})
	}
}

func TestCreateBooking(t *testing.T) {
	eventID := primitive.NewObjectID()

	t.Run("success", func(t *testing.T) {
		bookings := &fakeBookingsRepo{eventIDs: map[primitive.ObjectID]bool{eventID: true}}
		router := newTestRouter(&fakeEventsRepo{}, bookings)

		payload := `{"event_id":"` + eventID.Hex() + `","email":"Dev@Example.com"}`
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp models.BookingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Len(t, bookings.bookings, 1)
		require.Equal(t, "dev@example.com", bookings.bookings[0].Email)
	})

	failures := []struct {
		name     string
		payload  string
		wantCode int
	}{
		{name: "invalid email", payload: `{"event_id":"` + eventID.Hex() + `","email":"not-an-email"}`, wantCode: http.StatusBadRequest},
		{name: "missing email", payload: `{"event_id":"` + eventID.Hex() + `"}`, wantCode: http.StatusBadRequest},
		{name: "malformed body", payload: `{`, wantCode: http.StatusBadRequest},
		{name: "unknown event", payload: `{"event_id":"` + primitive.NewObjectID().Hex() + `","email":"dev@example.com"}`, wantCode: http.StatusNotFound},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			bookings := &fakeBookingsRepo{eventIDs: map[primitive.ObjectID]bool{eventID: true}}
			router := newTestRouter(&fakeEventsRepo{}, bookings)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code)
			var resp models.BookingResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.False(t, resp.Success)
			require.Empty(t, bookings.bookings, "failed bookings must not be persisted")
		})
	}
}

func TestCountBookings(t *testing.T) {
	event := &models.Event{ID: primitive.NewObjectID(), Slug: "react-conf-2024"}
	events := &fakeEventsRepo{bySlug: map[string]*models.Event{"react-conf-2024": event}}
	bookings := &fakeBookingsRepo{
		eventIDs: map[primitive.ObjectID]bool{event.ID: true},
		bookings: []*models.Booking{
			{EventID: event.ID, Email: "a@example.com"},
			{EventID: event.ID, Email: "b@example.com"},
		},
	}
	router := newTestRouter(events, bookings)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/react-conf-2024/bookings/count", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.CountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 2, resp.Count)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/events/unknown-slug/bookings/count", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
