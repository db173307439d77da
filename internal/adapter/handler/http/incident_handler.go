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

// IncidentHandler handles incident HTTP requests
type IncidentHandler struct {
	logger          *zap.Logger
	incidentService *usecase.IncidentService
}

// NewIncidentHandler creates a new incident handler instance
func NewIncidentHandler(logger *zap.Logger, incidentService *usecase.IncidentService) *IncidentHandler {
	return &IncidentHandler{
		logger:          logger,
		incidentService: incidentService,
	}
}

type incidentRequest struct {
	ClientID         string `json:"client_id" validate:"required,uuid"`
	Title            string `json:"title" validate:"required,max=255"`
	Description      string `json:"description"`
	IncidentType     string `json:"incident_type" validate:"max=100"`
	Severity         string `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	OccurredAt       string `json:"occurred_at" validate:"required"`
	FollowUpRequired bool   `json:"follow_up_required"`
}

// Create handles POST /api/v1/incidents
func (h *IncidentHandler) Create(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req incidentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	clientID, err := uuidFromString(req.ClientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "client_id must be a valid UUID")
	}
	occurredAt, err := time.Parse(time.RFC3339, req.OccurredAt)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "occurred_at must be an RFC3339 timestamp")
	}

	incident, err := h.incidentService.Create(c.Request().Context(), *actor, usecase.IncidentInput{
		ClientID:         clientID,
		Title:            req.Title,
		Description:      req.Description,
		IncidentType:     req.IncidentType,
		Severity:         model.Severity(req.Severity),
		OccurredAt:       occurredAt,
		FollowUpRequired: req.FollowUpRequired,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, incident)
}

// Get handles GET /api/v1/incidents/:id
func (h *IncidentHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	incident, err := h.incidentService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, incident)
}

// List handles GET /api/v1/incidents
func (h *IncidentHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.IncidentFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.Search = c.QueryParam("search")
	if filter.ClientID, err = queryUUID(c, "client_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("severity"); raw != "" {
		severity := model.Severity(raw)
		filter.Severity = &severity
	}
	for _, raw := range c.QueryParams()["status"] {
		filter.Statuses = append(filter.Statuses, model.IncidentStatus(raw))
	}
	if c.QueryParam("open_only") == "true" {
		filter.ExcludeStatuses = []model.IncidentStatus{
			model.IncidentStatusResolved,
			model.IncidentStatusClosed,
		}
	}
	if raw := c.QueryParam("occurred_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "occurred_from must be an RFC3339 timestamp")
		}
		filter.OccurredFrom = &from
	}
	if raw := c.QueryParam("occurred_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "occurred_to must be an RFC3339 timestamp")
		}
		filter.OccurredTo = &to
	}

	incidents, meta, err := h.incidentService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: incidents, Pagination: meta})
}

// Transition handles PATCH /api/v1/incidents/:id/status
func (h *IncidentHandler) Transition(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.incidentService.Transition(c.Request().Context(), *actor, id, model.IncidentStatus(req.Status)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateAction handles POST /api/v1/incidents/:id/actions
func (h *IncidentHandler) CreateAction(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	incidentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Description string `json:"description" validate:"required"`
		AssignedTo  string `json:"assigned_to" validate:"omitempty,uuid"`
		DueAt       string `json:"due_at"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.ActionInput{Description: req.Description}
	if req.AssignedTo != "" {
		assignee, err := uuidFromString(req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "assigned_to must be a valid UUID")
		}
		input.AssignedTo = &assignee
	}
	if req.DueAt != "" {
		due, err := time.Parse(time.RFC3339, req.DueAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_at must be an RFC3339 timestamp")
		}
		input.DueAt = &due
	}

	action, err := h.incidentService.CreateAction(c.Request().Context(), *actor, incidentID, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, action)
}

// TransitionAction handles PATCH /api/v1/incident-actions/:id/status
func (h *IncidentHandler) TransitionAction(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	actionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.incidentService.TransitionAction(c.Request().Context(), *actor, actionID, model.ActionStatus(req.Status)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListActions handles GET /api/v1/incidents/:id/actions
func (h *IncidentHandler) ListActions(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	incidentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	actions, err := h.incidentService.ListActions(c.Request().Context(), *actor, incidentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": actions})
}

// AddFollowup handles POST /api/v1/incidents/:id/followups
func (h *IncidentHandler) AddFollowup(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	incidentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Note         string `json:"note" validate:"required"`
		NextReviewAt string `json:"next_review_at"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var nextReviewAt *time.Time
	if req.NextReviewAt != "" {
		next, err := time.Parse(time.RFC3339, req.NextReviewAt)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "next_review_at must be an RFC3339 timestamp")
		}
		nextReviewAt = &next
	}

	followup, err := h.incidentService.AddFollowup(c.Request().Context(), *actor, incidentID, req.Note, nextReviewAt)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, followup)
}

// ListFollowups handles GET /api/v1/incidents/:id/followups
func (h *IncidentHandler) ListFollowups(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	incidentID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	followups, err := h.incidentService.ListFollowups(c.Request().Context(), *actor, incidentID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": followups})
}
