package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"glowbook/handlers"
	"glowbook/middleware"
)

// RegisterAgentRoutes registers the conversational agent endpoints.
func RegisterAgentRoutes(r *gin.Engine, agentHandler *handlers.AgentHandler) {
	api := r.Group("/api/agent")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.POST("/chat", agentHandler.ChatHandler)
		api.DELETE("/session/:sessionID", agentHandler.ResetHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for the booking dashboard.
func RegisterAdminRoutes(r *gin.Engine, adminHandler *handlers.AdminHandler) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.POST("/login", adminHandler.LoginHandler)

		protected := adminGroup.Group("")
		protected.Use(middleware.JWTAuthAdminMiddleware())
		protected.GET("/bookings", adminHandler.ListBookingsHandler)
		protected.GET("/analytics", adminHandler.AnalyticsHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Glowbook"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, agentHandler *handlers.AgentHandler, adminHandler *handlers.AdminHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAgentRoutes(r, agentHandler)
	RegisterAdminRoutes(r, adminHandler)
}
