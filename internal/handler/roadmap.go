package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
)

// maxTitleLen bounds the title derived from the goal text.
const maxTitleLen = 50

// CreateRoadmap generates a plan for the requested goal and saves it.
// A fallback plan is saved too and reported with source "fallback".
func (h *LearnerHandler) CreateRoadmap(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	req := advisor.RoadmapParams{Timeline: "3 months", DifficultyLevel: "Intermediate"}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Goal = strings.TrimSpace(req.Goal)
	if req.Goal == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please describe your learning goal"})
	}

	plan, live := h.Advisor.GenerateRoadmap(c.Request().Context(), s.User, req)
	content, err := json.Marshal(plan)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode roadmap failed"})
	}
	title := plan.Title
	if title == "" {
		title = truncate(req.Goal, maxTitleLen)
	}

	rm := model.Roadmap{
		UserEmail:       s.User.Email,
		Title:           title,
		Goal:            req.Goal,
		Timeline:        req.Timeline,
		DifficultyLevel: req.DifficultyLevel,
		Content:         string(content),
		CreatedAt:       h.stamp(),
	}
	id, err := h.Repos.Roadmaps.Save(rm)
	if err != nil {
		return storageFailure(c, h.Log, "save roadmap", err)
	}
	rm.ID = id
	rm.UpdatedAt = rm.CreatedAt
	emit(c, h.Events, queue.ActivityEvent{Type: queue.EventRoadmapCreated, UserEmail: s.User.Email, RecordID: id, Summary: title})

	return c.JSON(http.StatusCreated, echo.Map{
		"roadmap": rm,
		"plan":    plan,
		"source":  source(live),
	})
}

// ListRoadmaps returns the caller's saved roadmaps.
func (h *LearnerHandler) ListRoadmaps(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	items, err := h.Repos.Roadmaps.LoadForUser(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load roadmaps", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"roadmaps": items})
}
