package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"

	"github.com/devevent/server/internal/config"
	"github.com/devevent/server/internal/connect"
	"github.com/devevent/server/internal/helpers"
	"github.com/devevent/server/internal/models"
	"github.com/devevent/server/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Config         *config.Config
	Conn           *connect.Manager
	Repo           *models.MongodbRepo
	EventService   *services.EventService
	BookingService *services.BookingService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	conn *connect.Manager,
	cld *cloudinary.Cloudinary,
) *Container {
	repo := models.MongodbNewRepo(conn)
	uploader := helpers.NewCloudinaryUploader(cld, logger)
	eventService := services.NewEventService(repo, uploader)
	bookingService := services.NewBookingService(repo)

	return &Container{
		Logger:         logger,
		Config:         cfg,
		Conn:           conn,
		Repo:           repo,
		EventService:   eventService,
		BookingService: bookingService,
	}
}
