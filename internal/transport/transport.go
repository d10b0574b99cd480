package transport

import (
	"net/http"

	"github.com/markmanipula/QuickCourt-Backend/internal/transport/middleware"

	"github.com/gin-gonic/gin"
)

func InitRoutes(eventHandler *EventHandler, participationHandler *ParticipationHandler) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	// API routes
	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)

			events.POST("/:id/join", participationHandler.Join)
			events.POST("/:id/leave", participationHandler.Leave)
			events.PUT("/:id/participants/:name/toggle-paid", participationHandler.TogglePaid)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
