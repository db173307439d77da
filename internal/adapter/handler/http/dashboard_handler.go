package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	logger           *zap.Logger
	dashboardService *usecase.DashboardService
}

// NewDashboardHandler creates a new dashboard handler instance
func NewDashboardHandler(logger *zap.Logger, dashboardService *usecase.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		logger:           logger,
		dashboardService: dashboardService,
	}
}

// Summary handles GET /api/v1/dashboard
func (h *DashboardHandler) Summary(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	summary, err := h.dashboardService.Summary(c.Request().Context(), *actor)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, summary)
}
