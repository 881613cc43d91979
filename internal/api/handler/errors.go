package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/domain"
)

// ErrorStatus maps a domain error to its HTTP status and client message.
// ok is false for errors the caller should treat as unexpected.
func ErrorStatus(err error) (code int, msg string, ok bool) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials", true
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusUnauthorized, "no active session", true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden", true
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists", true
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid role", true
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, domain.ErrStorageFailure):
		return http.StatusServiceUnavailable, "storage unavailable", true
	}
	return 0, "", false
}

// fail writes known domain errors directly and hands the rest to the
// central error handler.
func fail(c echo.Context, err error) error {
	if code, msg, ok := ErrorStatus(err); ok {
		return c.JSON(code, errorResponse{Error: msg})
	}
	return err
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
