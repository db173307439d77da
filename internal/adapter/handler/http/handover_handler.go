package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// HandoverHandler handles shift handover HTTP requests
type HandoverHandler struct {
	logger          *zap.Logger
	handoverService *usecase.HandoverService
}

// NewHandoverHandler creates a new handover handler instance
func NewHandoverHandler(logger *zap.Logger, handoverService *usecase.HandoverService) *HandoverHandler {
	return &HandoverHandler{
		logger:          logger,
		handoverService: handoverService,
	}
}

// Create handles POST /api/v1/handovers
func (h *HandoverHandler) Create(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req struct {
		CareHomeID   string `json:"care_home_id" validate:"required,uuid"`
		ShiftDate    string `json:"shift_date" validate:"required"`
		ShiftType    string `json:"shift_type" validate:"required,oneof=day evening night"`
		HandoverFrom string `json:"handover_from" validate:"required,uuid"`
		HandoverTo   string `json:"handover_to" validate:"required,uuid"`
		Summary      string `json:"summary"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	careHomeID, err := uuidFromString(req.CareHomeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "care_home_id must be a valid UUID")
	}
	from, err := uuidFromString(req.HandoverFrom)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "handover_from must be a valid UUID")
	}
	to, err := uuidFromString(req.HandoverTo)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "handover_to must be a valid UUID")
	}
	shiftDate, err := time.Parse("2006-01-02", req.ShiftDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "shift_date must be YYYY-MM-DD")
	}

	handover, err := h.handoverService.Create(c.Request().Context(), *actor, usecase.HandoverInput{
		CareHomeID:   careHomeID,
		ShiftDate:    shiftDate,
		ShiftType:    model.ShiftType(req.ShiftType),
		HandoverFrom: from,
		HandoverTo:   to,
		Summary:      req.Summary,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, handover)
}

// Get handles GET /api/v1/handovers/:id
func (h *HandoverHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	handover, err := h.handoverService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, handover)
}

// List handles GET /api/v1/handovers
func (h *HandoverHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.HandoverFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	if filter.CareHomeID, err = queryUUID(c, "care_home_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("shift_type"); raw != "" {
		shiftType := model.ShiftType(raw)
		if !shiftType.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "shift_type must be day, evening or night")
		}
		filter.ShiftType = &shiftType
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be YYYY-MM-DD")
		}
		filter.ShiftDateFrom = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be YYYY-MM-DD")
		}
		filter.ShiftDateTo = &to
	}
	filter.OnlyIncomplete = c.QueryParam("only_incomplete") == "true"

	handovers, meta, err := h.handoverService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: handovers, Pagination: meta})
}

// Complete handles POST /api/v1/handovers/:id/complete
func (h *HandoverHandler) Complete(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.handoverService.Complete(c.Request().Context(), *actor, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
