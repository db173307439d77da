package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/domain/model"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// NotificationHandler handles notification queue HTTP requests
type NotificationHandler struct {
	logger              *zap.Logger
	notificationService *usecase.NotificationService
}

// NewNotificationHandler creates a new notification handler instance
func NewNotificationHandler(logger *zap.Logger, notificationService *usecase.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		logger:              logger,
		notificationService: notificationService,
	}
}

// Get handles GET /api/v1/notifications/:id
func (h *NotificationHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	entry, err := h.notificationService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, entry)
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.NotificationFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.NotificationStatus(raw)
		filter.Status = &status
	}
	if raw := c.QueryParam("channel"); raw != "" {
		channel := model.NotificationChannel(raw)
		filter.Channel = &channel
	}
	if filter.RecipientID, err = queryUUID(c, "recipient_id"); err != nil {
		return err
	}

	entries, meta, err := h.notificationService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: entries, Pagination: meta})
}

// Retry handles POST /api/v1/notifications/:id/retry
func (h *NotificationHandler) Retry(c echo.Context) error {
	return h.transition(c, h.notificationService.Retry)
}

// Cancel handles POST /api/v1/notifications/:id/cancel
func (h *NotificationHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.notificationService.Cancel)
}

// MarkSent handles POST /api/v1/notifications/:id/mark-sent
func (h *NotificationHandler) MarkSent(c echo.Context) error {
	return h.transition(c, h.notificationService.MarkSent)
}

func (h *NotificationHandler) transition(c echo.Context, op func(ctx context.Context, actor entity.Actor, id uuid.UUID) error) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := op(c.Request().Context(), *actor, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
