package middleware

// identity.go holds the context accessors shared by the middleware and
// the handlers.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/auth"
)

// SessionKey is the echo.Context key RequireSession stores under.
const SessionKey = "session"

// CurrentSession returns the session RequireSession attached, or nil.
func CurrentSession(c echo.Context) *auth.Session {
	s, _ := c.Get(SessionKey).(*auth.Session)
	return s
}

// userKey names the caller in request logs. It returns "guest" when no
// session is attached.
func userKey(c echo.Context) string {
	if s := CurrentSession(c); s != nil && s.User.Email != "" {
		return s.User.Email
	}
	return "guest"
}
