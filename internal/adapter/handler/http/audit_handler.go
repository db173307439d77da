package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// AuditHandler handles audit feed HTTP requests
type AuditHandler struct {
	logger       *zap.Logger
	auditService *usecase.AuditService
}

// NewAuditHandler creates a new audit handler instance
func NewAuditHandler(logger *zap.Logger, auditService *usecase.AuditService) *AuditHandler {
	return &AuditHandler{
		logger:       logger,
		auditService: auditService,
	}
}

// List handles GET /api/v1/audit-events
func (h *AuditHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.AuditFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.EntityType = c.QueryParam("entity_type")
	if filter.EntityID, err = queryUUID(c, "entity_id"); err != nil {
		return err
	}
	if filter.ActorID, err = queryUUID(c, "actor_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "from must be an RFC3339 timestamp")
		}
		filter.From = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "to must be an RFC3339 timestamp")
		}
		filter.To = &to
	}

	events, meta, err := h.auditService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: events, Pagination: meta})
}
