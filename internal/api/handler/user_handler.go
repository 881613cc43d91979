package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/portfolio/blog-admin/internal/core/domain"
	"github.com/portfolio/blog-admin/internal/core/ports"
)

// UserHandler exposes the admin user registry.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /admin/users.
//
// @Summary      List admin users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.GetAllUsers(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Count: len(users)})
}

// Get handles GET /admin/users/:id.
//
// @Summary      Get an admin user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.AdminUser
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Create handles POST /admin/users.
//
// @Summary      Create an admin user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.AdminUser
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return fail(c, err)
	}

	user, err := h.users.CreateUser(c.Request().Context(), ports.NewUserInput{
		Email: strings.TrimSpace(req.Email),
		Name:  req.Name,
		Role:  role,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Update handles PUT /admin/users/:id. Omitted fields are left unchanged.
// An email already used by another user is a conflict.
//
// @Summary      Update an admin user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.AdminUser
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx := c.Request().Context()
	user, err := h.users.GetUserByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}

	if req.Email != nil {
		user.Email = strings.TrimSpace(*req.Email)
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return fail(c, err)
		}
		user.Role = role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	updated, err := h.users.UpdateUser(ctx, *user)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Deactivate handles POST /admin/users/:id/deactivate.
//
// @Summary      Deactivate an admin user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.AdminUser
// @Failure      404  {object}  errorResponse
// @Router       /admin/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	user, err := h.users.DeactivateUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
