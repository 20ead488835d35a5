package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/middleware"
	"github.com/iliyamo/learning-mentor/internal/queue"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

// EventPublisher sends activity events. Failures never fail a request.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ActivityEvent) error
}

// emit publishes ev in the background, detached from the request's
// cancellation.
func emit(c echo.Context, events EventPublisher, ev queue.ActivityEvent) {
	if events == nil {
		return
	}
	ctx := context.WithoutCancel(c.Request().Context())
	go func() { _ = events.Publish(ctx, ev) }()
}

// currentSession returns the caller's authenticated session, or nil.
func currentSession(c echo.Context) *auth.Session {
	s := middleware.CurrentSession(c)
	if s == nil || !s.Authenticated {
		return nil
	}
	return s
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please log in"})
}

// storageFailure maps a repository error to a response.
func storageFailure(c echo.Context, log *logger.Logger, op string, err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	log.Error(op+" failed", "error", err)
	return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "storage unavailable, please try again"})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func source(live bool) string {
	if live {
		return "model"
	}
	return "fallback"
}
