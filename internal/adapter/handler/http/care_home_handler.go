package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// CareHomeHandler handles care home HTTP requests
type CareHomeHandler struct {
	logger          *zap.Logger
	careHomeService *usecase.CareHomeService
}

// NewCareHomeHandler creates a new care home handler instance
func NewCareHomeHandler(logger *zap.Logger, careHomeService *usecase.CareHomeService) *CareHomeHandler {
	return &CareHomeHandler{
		logger:          logger,
		careHomeService: careHomeService,
	}
}

type careHomeRequest struct {
	Name             string `json:"name" validate:"required,max=255"`
	AddressLine1     string `json:"address_line1" validate:"max=255"`
	AddressLine2     string `json:"address_line2" validate:"max=255"`
	City             string `json:"city" validate:"max=100"`
	Postcode         string `json:"postcode" validate:"max=20"`
	Phone            string `json:"phone" validate:"max=50"`
	Email            string `json:"email" validate:"omitempty,email"`
	Capacity         int    `json:"capacity" validate:"min=0"`
	CurrentOccupancy int    `json:"current_occupancy" validate:"min=0"`
}

func (r careHomeRequest) toInput() usecase.CareHomeInput {
	return usecase.CareHomeInput{
		Name:             r.Name,
		AddressLine1:     r.AddressLine1,
		AddressLine2:     r.AddressLine2,
		City:             r.City,
		Postcode:         r.Postcode,
		Phone:            r.Phone,
		Email:            r.Email,
		Capacity:         r.Capacity,
		CurrentOccupancy: r.CurrentOccupancy,
	}
}

// Create handles POST /api/v1/care-homes
func (h *CareHomeHandler) Create(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req careHomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	home, err := h.careHomeService.Create(c.Request().Context(), *actor, req.toInput())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, home)
}

// Get handles GET /api/v1/care-homes/:id
func (h *CareHomeHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	home, err := h.careHomeService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, home)
}

// List handles GET /api/v1/care-homes
func (h *CareHomeHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.CareHomeFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.Search = c.QueryParam("search")
	filter.IncludeInactive = c.QueryParam("include_inactive") == "true"

	homes, meta, err := h.careHomeService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: homes, Pagination: meta})
}

// Update handles PUT /api/v1/care-homes/:id
func (h *CareHomeHandler) Update(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req careHomeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	home, err := h.careHomeService.Update(c.Request().Context(), *actor, id, req.toInput())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, home)
}

// SetActive handles PATCH /api/v1/care-homes/:id/active
func (h *CareHomeHandler) SetActive(c echo.Context) error {
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

	if err := h.careHomeService.SetActive(c.Request().Context(), *actor, id, req.Active); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AssignManager handles POST /api/v1/care-homes/:id/managers
func (h *CareHomeHandler) AssignManager(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	careHomeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		ManagerID string `json:"manager_id" validate:"required,uuid"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	managerID, err := uuidFromString(req.ManagerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "manager_id must be a valid UUID")
	}

	if err := h.careHomeService.AssignManager(c.Request().Context(), *actor, managerID, careHomeID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UnassignManager handles DELETE /api/v1/care-homes/:id/managers/:managerId
func (h *CareHomeHandler) UnassignManager(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	careHomeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	managerID, err := pathUUID(c, "managerId")
	if err != nil {
		return err
	}

	if err := h.careHomeService.UnassignManager(c.Request().Context(), *actor, managerID, careHomeID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListManagers handles GET /api/v1/care-homes/:id/managers
func (h *CareHomeHandler) ListManagers(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	careHomeID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	managers, err := h.careHomeService.Managers(c.Request().Context(), *actor, careHomeID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": managers})
}
