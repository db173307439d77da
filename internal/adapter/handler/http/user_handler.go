package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// UserHandler handles profile administration HTTP requests
type UserHandler struct {
	logger      *zap.Logger
	userService *usecase.UserService
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(logger *zap.Logger, userService *usecase.UserService) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userService: userService,
	}
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	profile, err := h.userService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.ProfileFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.Search = c.QueryParam("search")
	filter.IncludeInactive = c.QueryParam("include_inactive") == "true"
	if raw := c.QueryParam("role"); raw != "" {
		role := model.Role(raw)
		if !role.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "role must be carer, manager or business_owner")
		}
		filter.Role = &role
	}

	profiles, meta, err := h.userService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: profiles, Pagination: meta})
}

// ChangeRole handles PATCH /api/v1/users/:id/role
func (h *UserHandler) ChangeRole(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Role string `json:"role" validate:"required,oneof=carer manager business_owner"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.userService.ChangeRole(c.Request().Context(), *actor, id, model.Role(req.Role)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetActive handles PATCH /api/v1/users/:id/active
func (h *UserHandler) SetActive(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.userService.SetActive(c.Request().Context(), *actor, id, req.Active); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
