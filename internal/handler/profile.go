package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
)

type profileReq struct {
	Name            *string  `json:"name"`
	ExperienceLevel *string  `json:"experience_level"`
	AgeGroup        *string  `json:"age_group"`
	Interests       []string `json:"interests"`
	Skills          []string `json:"skills"`
	TimeCommitment  *string  `json:"time_commitment"`
	LearningStyle   *string  `json:"learning_style"`
	ShortTermGoals  *string  `json:"short_term_goals"`
	LongTermGoals   *string  `json:"long_term_goals"`
}

// UpdateProfile overwrites the supplied profile fields of the caller's
// row, stamps updated_at and refreshes the session copy of the user.
func (h *LearnerHandler) UpdateProfile(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name cannot be empty"})
	}

	upd := model.ProfileUpdate{
		Email:           s.User.Email,
		Name:            req.Name,
		ExperienceLevel: req.ExperienceLevel,
		AgeGroup:        req.AgeGroup,
		TimeCommitment:  req.TimeCommitment,
		LearningStyle:   req.LearningStyle,
		ShortTermGoals:  req.ShortTermGoals,
		LongTermGoals:   req.LongTermGoals,
		UpdatedAt:       model.Str(h.stamp()),
	}
	if req.Interests != nil {
		upd.Interests = model.Str(model.JoinList(req.Interests))
	}
	if req.Skills != nil {
		upd.Skills = model.Str(model.JoinList(req.Skills))
	}

	if ok, err := h.Repos.Users.SaveUserProfile(upd); !ok {
		return storageFailure(c, h.Log, "update profile", err)
	}

	upd.Apply(&s.User)
	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	if err := h.Sessions.Save(c.Request().Context(), s, ttl); err != nil {
		h.Log.Warn("refresh session after profile update failed", "email", s.User.Email, "error", err)
	}
	emit(c, h.Events, queue.ActivityEvent{Type: queue.EventProfileUpdated, UserEmail: s.User.Email})
	return c.JSON(http.StatusOK, s.User)
}
