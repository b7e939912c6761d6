package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/devevent/server/internal/container"
	"github.com/devevent/server/internal/handlers"
	"github.com/devevent/server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{container.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "devevent-api",
			})
		})

		eventRoutes := v1.Group("/events")
		{
			eventRoutes.GET("", handlers.ListEvents(container.EventService))
			eventRoutes.POST("", handlers.CreateEvent(container.EventService))
			eventRoutes.GET("/:slug", handlers.GetEventBySlug(container.EventService))
			eventRoutes.GET("/:slug/similar", handlers.GetSimilarEvents(container.EventService))
			eventRoutes.GET("/:slug/bookings/count", handlers.CountBookings(container.EventService, container.BookingService))
		}

		v1.POST("/bookings", handlers.CreateBooking(container.BookingService))
	}

	return r
}
