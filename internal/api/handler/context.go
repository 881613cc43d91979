package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/api/middleware"
	"github.com/portfolio/blog-admin/internal/core/domain"
)

// ctxSession returns the session injected by the Auth middleware. Its absence
// means the route was registered without Auth, so the request is rejected.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication session")
	}
	return session, nil
}
