package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/api/metrics"
)

// RequirePermission lets the request through only when the session placed by
// Auth grants action on resource. Missing sessions are denied.
func RequirePermission(action, resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, ok := SessionFrom(c)
			if !ok || !session.HasPermission(action, resource) {
				metrics.PermissionDeniedTotal.WithLabelValues(action, resource).Inc()
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
