package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login verifies email, password and admin key, opens the session and
// returns a bearer token bound to it.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Admin credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	session, err := h.authService.Authenticate(c.Request().Context(), req.Email, req.Password, req.AdminKey)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.authService.IssueToken(session)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: session.ExpiryTime,
		Session:   session,
	})
}

// Logout clears the session slot.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the caller's live session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  domain.Session
// @Failure      401   {object}  errorResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, session)
}

// CheckPermission reports whether the current session may perform action on resource.
//
// @Summary      Check a permission
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Param        action    query     string  true  "Action, e.g. write"
// @Param        resource  query     string  true  "Resource, e.g. posts"
// @Success      200       {object}  permissionCheckResponse
// @Failure      400       {object}  errorResponse
// @Router       /auth/permissions/check [get]
func (h *AuthHandler) CheckPermission(c echo.Context) error {
	action := c.QueryParam("action")
	resource := c.QueryParam("resource")
	if action == "" || resource == "" {
		return badRequest(c, "action and resource are required")
	}

	return c.JSON(http.StatusOK, permissionCheckResponse{
		Action:   action,
		Resource: resource,
		Allowed:  h.authService.HasPermission(c.Request().Context(), action, resource),
	})
}
