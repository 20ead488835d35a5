package handler

import (
	"time"

	"github.com/iliyamo/learning-mentor/internal/advisor"
	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/repository"
)

// LearnerHandler serves the signed-in user's profile, advisor and
// activity endpoints. Every read is filtered by the session email.
type LearnerHandler struct {
	Cfg      config.Config
	Repos    *repository.Repos
	Advisor  *advisor.Advisor
	Sessions auth.Registry
	Events   EventPublisher
	Log      *logger.Logger
	now      func() time.Time
}

func NewLearnerHandler(cfg config.Config, repos *repository.Repos, adv *advisor.Advisor, sessions auth.Registry, events EventPublisher, log *logger.Logger) *LearnerHandler {
	return &LearnerHandler{Cfg: cfg, Repos: repos, Advisor: adv, Sessions: sessions, Events: events, Log: log, now: time.Now}
}

func (h *LearnerHandler) stamp() string { return model.FormatTime(h.now()) }
