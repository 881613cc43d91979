package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// SessionKey is the echo context key holding the caller's *domain.Session.
const SessionKey = "session"

// SessionResolver is the part of the auth service the middleware needs.
type SessionResolver interface {
	ParseToken(token string) (string, error)
	CurrentSession(ctx context.Context) (*domain.Session, error)
}

// Auth validates the bearer token and injects the live session into context.
// A token issued for an earlier session is rejected once the slot has been
// taken over by a newer login.
func Auth(sessions SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			sid, err := sessions.ParseToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			session, err := sessions.CurrentSession(c.Request().Context())
			if err != nil || session.ID != sid {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired or replaced")
			}

			c.Set(SessionKey, session)
			c.Set("role", string(session.Role))
			c.Set("email", session.Email)

			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Auth.
func SessionFrom(c echo.Context) (*domain.Session, bool) {
	s, ok := c.Get(SessionKey).(*domain.Session)
	return s, ok && s != nil
}
