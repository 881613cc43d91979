package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/portfolio/blog-admin/internal/api/handler"
)

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewHTTPErrorHandler renders every failure as {"error": ..., "request_id": ...}.
// Domain errors keep their message; anything unrecognised becomes a 500 and is
// only described in the log.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := classify(err)
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)

		switch {
		case code >= http.StatusInternalServerError:
			log.Error().Err(err).
				Str("request_id", reqID).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Int("status", code).
				Msg("request failed")
		case code == http.StatusUnauthorized || code == http.StatusForbidden:
			log.Debug().Err(err).Str("route", c.Path()).Int("status", code).Msg("request rejected")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorBody{Error: msg, RequestID: reqID})
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}
	if code, msg, ok := handler.ErrorStatus(err); ok {
		return code, msg
	}
	return http.StatusInternalServerError, "internal server error"
}
