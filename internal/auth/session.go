// Package auth verifies credentials and tracks who is signed in.
//
// A Session is an explicit value handed to every handler through the
// request context; there is no process-wide "current user".
package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/learning-mentor/internal/model"
)

// Session is the per-visitor state. Its zero value is the absent state:
// no id, not authenticated, no user, no start time.
type Session struct {
	ID            string     `json:"id"`
	Authenticated bool       `json:"authenticated"`
	User          model.User `json:"user"`
	StartedAt     time.Time  `json:"started_at"`
}

// Init fills in the id and start time if they are absent. Calling it on
// a live session changes nothing.
func (s *Session) Init(now time.Time) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.StartedAt.IsZero() {
		s.StartedAt = now
	}
}

// Login marks the session authenticated as u. The password is never
// kept on a session.
func (s *Session) Login(u model.User) {
	u.Password = ""
	s.Authenticated = true
	s.User = u
}

// Logout returns the session to the absent state, not to the state
// Init produces.
func (s *Session) Logout() { *s = Session{} }

// Present reports whether Init has run since the last Logout.
func (s *Session) Present() bool { return s.ID != "" }
