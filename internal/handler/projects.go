package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
)

// SuggestProjects asks the advisor for projects and logs the request
// as a project_suggestion interaction.
func (h *LearnerHandler) SuggestProjects(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	req := advisor.ProjectParams{
		FocusArea:       advisor.GenericFocus,
		DifficultyLevel: "Match my level",
		ProjectType:     "Any",
		Timeline:        "1 month",
		NumProjects:     3,
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	projects, live := h.Advisor.SuggestProjects(c.Request().Context(), s.User, req)

	details := fmt.Sprintf("Generated %d projects for %s", len(projects), req.FocusArea)
	id, err := h.Repos.Interactions.Save(model.Interaction{
		UserEmail:       s.User.Email,
		InteractionType: model.InteractionProjectSuggestion,
		Details:         details,
		Timestamp:       h.stamp(),
	})
	if err != nil {
		h.Log.Warn("record interaction failed", "email", s.User.Email, "error", err)
	} else {
		emit(c, h.Events, queue.ActivityEvent{Type: queue.EventProjectsSuggested, UserEmail: s.User.Email, RecordID: id, Summary: details})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"projects":       projects,
		"source":         source(live),
		"interaction_id": id,
	})
}

// ListInteractions returns the caller's interaction log.
func (h *LearnerHandler) ListInteractions(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	items, err := h.Repos.Interactions.LoadForUser(s.User.Email)
	if err != nil {
		return storageFailure(c, h.Log, "load interactions", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"interactions": items})
}
