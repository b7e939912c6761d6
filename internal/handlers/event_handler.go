package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/devevent/server/internal/helpers"
	"github.com/devevent/server/internal/models"
	"github.com/devevent/server/internal/services"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// normalizeSlug trims and lowercases a route slug and enforces the allowed
// character set before any repository call.
func normalizeSlug(raw string) (string, *models.ErrorResponse) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if slug == "" {
		resp := models.NewErrorResponse("Invalid slug", `The route parameter "slug" is required and must be a non-empty string.`)
		return "", &resp
	}
	if !slugPattern.MatchString(slug) {
		resp := models.NewErrorResponse("Invalid slug format", "Slug may only contain lowercase letters, numbers, and hyphens.")
		return "", &resp
	}
	return slug, nil
}

func GetEventBySlug(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, badSlug := normalizeSlug(c.Param("slug"))
		if badSlug != nil {
			c.JSON(http.StatusBadRequest, badSlug)
			return
		}

		event, err := es.GetEventBySlug(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				c.JSON(http.StatusNotFound, models.NewErrorResponse("Event not found", fmt.Sprintf("No event found for slug %q.", slug)))
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch event", err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.EventResponse{
			Message: "Event fetched successfully",
			Event:   event,
		})
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context())
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Event fetching failed", err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.EventsResponse{
			Message: "Events fetched successfully",
			Events:  events,
		})
	}
}

func GetSimilarEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug, badSlug := normalizeSlug(c.Param("slug"))
		if badSlug != nil {
			c.JSON(http.StatusBadRequest, badSlug)
			return
		}

		events, err := es.GetSimilarEvents(c.Request.Context(), slug)
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Failed to fetch similar events", err.Error()))
			return
		}

		c.JSON(http.StatusOK, models.EventsResponse{
			Message: "Similar events fetched successfully",
			Events:  events,
		})
	}
}

// CreateEvent handles the multipart event-creation form. Every validation
// failure is rejected with its own message before the store is touched.
func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Image file is required", ""))
			return
		}

		mode, err := services.NormalizeMode(c.PostForm("mode"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid mode value", "Mode must reduce to one of online, offline or hybrid."))
			return
		}

		rawTags := c.PostForm("tags")
		if rawTags == "" {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid tags format", `Field "tags" is required and must be a JSON stringified array of strings.`))
			return
		}
		tags, err := helpers.ParseStringArray(rawTags)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid tags value", fmt.Sprintf(`Field "tags" %v.`, err)))
			return
		}

		rawAgenda := c.PostForm("agenda")
		if rawAgenda == "" {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid agenda format", `Field "agenda" is required and must be a JSON stringified array of strings.`))
			return
		}
		agenda, err := helpers.ParseStringArray(rawAgenda)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid agenda value", fmt.Sprintf(`Field "agenda" %v.`, err)))
			return
		}

		input := services.CreateEventInput{
			Title:       c.PostForm("title"),
			Description: c.PostForm("description"),
			Overview:    c.PostForm("overview"),
			Date:        c.PostForm("date"),
			Time:        c.PostForm("time"),
			Location:    c.PostForm("location"),
			Venue:       c.PostForm("venue"),
			Mode:        mode,
			Audience:    c.PostForm("audience"),
			Organizer:   c.PostForm("organizer"),
			Tags:        tags,
			Agenda:      agenda,
		}

		image, err := file.Open()
		if err != nil {
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Event Creation failed", "Could not read the uploaded image."))
			return
		}
		defer image.Close()

		event, err := es.CreateEvent(c.Request.Context(), input, image, file.Filename)
		if err != nil {
			if errors.Is(err, models.ErrValidation) {
				c.JSON(http.StatusBadRequest, models.NewErrorResponse("Invalid event data", err.Error()))
				return
			}
			c.Error(err)
			c.JSON(http.StatusInternalServerError, models.NewErrorResponse("Event Creation failed", err.Error()))
			return
		}

		c.JSON(http.StatusCreated, models.EventResponse{
			Message: "Event created successfully",
			Event:   event,
		})
	}
}
