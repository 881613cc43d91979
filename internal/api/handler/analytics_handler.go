package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

type AnalyticsHandler struct {
	analytics ports.AnalyticsService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview handles GET /admin/analytics. Unknown ranges fall back to 30d.
//
// @Summary      Analytics snapshot
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     string  false  "7d, 30d, 90d or 365d"  default(30d)
// @Success      200    {object}  domain.AnalyticsSnapshot
// @Failure      403    {object}  errorResponse
// @Router       /admin/analytics [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	r := domain.ParseTimeRange(c.QueryParam("range"))
	return c.JSON(http.StatusOK, h.analytics.GetAnalyticsData(c.Request().Context(), r))
}

// TimeSeries handles GET /admin/analytics/timeseries.
//
// @Summary      Daily views and visitors
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        range  query     string  false  "7d, 30d, 90d or 365d"  default(30d)
// @Success      200    {object}  timeSeriesResponse
// @Router       /admin/analytics/timeseries [get]
func (h *AnalyticsHandler) TimeSeries(c echo.Context) error {
	r := domain.ParseTimeRange(c.QueryParam("range"))
	return c.JSON(http.StatusOK, timeSeriesResponse{
		TimeRange: r,
		Daily:     h.analytics.GetTimeSeries(c.Request().Context(), r),
	})
}
