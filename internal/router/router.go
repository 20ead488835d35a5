package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/handler"
	"github.com/iliyamo/learning-mentor/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the sign-up and sign-in routes under /v1/auth
// and the session routes under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, sessions auth.Registry) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout, middleware.RequireSession(jwtSecret, sessions))

	protected := e.Group("/v1", middleware.RequireSession(jwtSecret, sessions))
	protected.GET("/me", a.Me)
}

// RegisterLearner registers the signed-in user's endpoints. Routes that
// call the advisor model spend credits from limit, priced per call.
func RegisterLearner(e *echo.Echo, h *handler.LearnerHandler, jwtSecret string, sessions auth.Registry, limit *middleware.Limiter) {
	g := e.Group("/v1", middleware.RequireSession(jwtSecret, sessions))
	cost := limit.Costs()

	g.PUT("/profile", h.UpdateProfile)

	g.POST("/projects/suggest", h.SuggestProjects, limit.Charge(cost.Projects))
	g.GET("/interactions", h.ListInteractions)

	g.POST("/roadmaps", h.CreateRoadmap, limit.Charge(cost.Roadmap))
	g.GET("/roadmaps", h.ListRoadmaps)

	g.POST("/chat", h.Chat, limit.Charge(cost.Chat))
	g.GET("/chat", h.ChatHistory)

	g.POST("/progress", h.LogProgress)
	g.GET("/progress", h.ListProgress)
	g.GET("/progress/insights", h.ProgressInsights, limit.Charge(cost.Insights))

	g.GET("/stats", h.Stats)
}
