package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/config"
	"github.com/iliyamo/learning-mentor/internal/logger"
	"github.com/iliyamo/learning-mentor/internal/model"
	"github.com/iliyamo/learning-mentor/internal/queue"
	"github.com/iliyamo/learning-mentor/internal/utils"
)

// MinPasswordLen is the shortest password accepted at registration.
const MinPasswordLen = 6

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Auth     *auth.Service
	Sessions auth.Registry
	Events   EventPublisher
	Log      *logger.Logger
	now      func() time.Time
}

func NewAuthHandler(cfg config.Config, svc *auth.Service, sessions auth.Registry, events EventPublisher, log *logger.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: svc, Sessions: sessions, Events: events, Log: log, now: time.Now}
}

// ----- DTOs -----

type registerReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	ExperienceLevel string `json:"experience_level"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type authResp struct {
	User    model.User `json:"user"`
	Session string     `json:"session_id"`
	Access  tokenPart  `json:"access"`
}

// Register creates the account and signs the new user in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please fill in all fields"})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passwords do not match"})
	}
	if len(req.Password) < MinPasswordLen {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters long"})
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = "Beginner"
	}

	u := model.User{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ExperienceLevel: req.ExperienceLevel,
		CreatedAt:       model.FormatTime(h.now()),
	}
	switch err := h.Auth.SignUp(u); {
	case errors.Is(err, auth.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": "an account with this email already exists"})
	case errors.Is(err, auth.ErrPasswordTooLong):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at most 72 bytes long"})
	case err != nil:
		return storageFailure(c, h.Log, "register", err)
	}
	h.Log.Info("user registered", "email", u.Email)
	emit(c, h.Events, queue.ActivityEvent{Type: queue.EventUserRegistered, UserEmail: u.Email, Summary: u.Name})

	u.Password = ""
	return h.startSession(c, http.StatusCreated, u)
}

// Login verifies credentials and opens a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "please enter both email and password"})
	}

	u, ok := h.Auth.Authenticate(req.Email, req.Password)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid email or password"})
	}
	return h.startSession(c, http.StatusOK, u)
}

func (h *AuthHandler) startSession(c echo.Context, status int, u model.User) error {
	s := &auth.Session{}
	s.Init(h.now())
	s.Login(u)

	ttl := time.Duration(h.Cfg.AccessTTLMin) * time.Minute
	if err := h.Sessions.Save(c.Request().Context(), s, ttl); err != nil {
		h.Log.Error("save session failed", "email", u.Email, "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, s.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(status, authResp{
		User:    s.User,
		Session: s.ID,
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	if err := h.Sessions.Delete(c.Request().Context(), s.ID); err != nil {
		h.Log.Error("delete session failed", "email", s.User.Email, "error", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
	}
	s.Logout()
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the signed-in user and session.
func (h *AuthHandler) Me(c echo.Context) error {
	s := currentSession(c)
	if s == nil {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, s)
}
