package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
)

type progressReq struct {
	ProgressType     string   `json:"progress_type"`
	Description      string   `json:"description"`
	TimeSpent        string   `json:"time_spent"`
	DifficultyRating string   `json:"difficulty_rating"`
	SkillsGained     []string `json:"skills_gained"`
	NextSteps        string   `json:"next_steps"`
}

// LogProgress records one learning activity for the caller.
func (h *LearnerHandler) LogProgress(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	var req progressReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Description) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please describe your progress"})
	}

	entry := model.ProgressEntry{
		UserEmail:        s.User.Email,
		ProgressType:     req.ProgressType,
		Description:      req.Description,
		TimeSpent:        req.TimeSpent,
		DifficultyRating: req.DifficultyRating,
		SkillsGained:     model.JoinList(req.SkillsGained),
		NextSteps:        req.NextSteps,
		Timestamp:        h.stamp(),
	}
	id, err := h.Repos.Progress.Save(entry)
	if err != nil {
		return storageFailure(c, h.Log, "save progress", err)
	}
	entry.ID = id
	emit(c, h.Events, queue.ActivityEvent{Type: queue.EventProgressLogged, UserEmail: entry.UserEmail, RecordID: id, Summary: entry.ProgressType})
	return c.JSON(http.StatusCreated, entry)
}

// ListProgress returns the caller's entries, newest first.
func (h *LearnerHandler) ListProgress(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	items, err := h.Repos.Progress.LoadForUser(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load progress", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"entries": items})
}

// ProgressInsights asks the advisor to analyze the caller's entries.
func (h *LearnerHandler) ProgressInsights(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	items, err := h.Repos.Progress.LoadForUser(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load progress", err)
	}
	insights, live := h.Advisor.AnalyzeProgress(c.Request().Context(), items)
	return c.JSON(http.StatusOK, echo.Map{
		"insights": insights,
		"source":   source(live),
		"entries":  len(items),
	})
}
