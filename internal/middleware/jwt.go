package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-mentor/internal/auth"
	"github.com/iliyamo/learning-mentor/internal/utils"
)

// RequireSession validates the Bearer access token, loads the session it
// names from reg and stores it in the context under SessionKey. A
// missing, revoked or unauthenticated session yields 401.
func RequireSession(secret string, reg auth.Registry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please log in"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			s, err := reg.Get(c.Request().Context(), claims.SessionID)
			if errors.Is(err, auth.ErrSessionNotFound) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please log in"})
			}
			if err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "session store unavailable"})
			}
			if !s.Authenticated || s.User.Email != claims.Subject {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "please log in"})
			}

			c.Set(SessionKey, s)
			return next(c)
		}
	}
}
