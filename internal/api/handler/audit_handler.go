package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/ports"
)

type AuditHandler struct {
	audit ports.AuditReader
}

func NewAuditHandler(audit ports.AuditReader) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List handles GET /admin/audit.
//
// @Summary      Recent audit events, newest first
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum events, capped at 500"  default(50)
// @Success      200    {object}  auditListResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      503    {object}  errorResponse
// @Router       /admin/audit [get]
func (h *AuditHandler) List(c echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return badRequest(c, "limit must be an integer")
	}

	events, err := h.audit.Recent(c.Request().Context(), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, auditListResponse{Events: events, Count: len(events)})
}
