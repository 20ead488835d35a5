package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Stats summarizes the caller's activity across all tables.
func (h *LearnerHandler) Stats(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	st, err := h.Repos.Stats(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load stats", err)
	}
	return c.JSON(http.StatusOK, st)
}
