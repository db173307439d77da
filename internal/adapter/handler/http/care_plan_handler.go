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

// CarePlanHandler handles care plan, version, task and review HTTP requests
type CarePlanHandler struct {
	logger          *zap.Logger
	carePlanService *usecase.CarePlanService
}

// NewCarePlanHandler creates a new care plan handler instance
func NewCarePlanHandler(logger *zap.Logger, carePlanService *usecase.CarePlanService) *CarePlanHandler {
	return &CarePlanHandler{
		logger:          logger,
		carePlanService: carePlanService,
	}
}

type carePlanRequest struct {
	ClientID    string `json:"client_id" validate:"required,uuid"`
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	ReviewDate  string `json:"review_date" validate:"omitempty"`
}

func (r carePlanRequest) toInput() (usecase.CarePlanInput, error) {
	clientID, err := uuidFromString(r.ClientID)
	if err != nil {
		return usecase.CarePlanInput{}, echo.NewHTTPError(http.StatusBadRequest, "client_id must be a valid UUID")
	}

	input := usecase.CarePlanInput{
		ClientID:    clientID,
		Title:       r.Title,
		Description: r.Description,
	}
	if r.ReviewDate != "" {
		reviewDate, err := time.Parse("2006-01-02", r.ReviewDate)
		if err != nil {
			return usecase.CarePlanInput{}, echo.NewHTTPError(http.StatusBadRequest, "review_date must be YYYY-MM-DD")
		}
		input.ReviewDate = &reviewDate
	}
	return input, nil
}

// Create handles POST /api/v1/care-plans
func (h *CarePlanHandler) Create(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req carePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	plan, err := h.carePlanService.Create(c.Request().Context(), *actor, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, plan)
}

// Get handles GET /api/v1/care-plans/:id
func (h *CarePlanHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	plan, err := h.carePlanService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// List handles GET /api/v1/care-plans
func (h *CarePlanHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.CarePlanFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.Search = c.QueryParam("search")
	if filter.ClientID, err = queryUUID(c, "client_id"); err != nil {
		return err
	}
	switch due := c.QueryParam("review_due"); due {
	case "", string(entity.DateFilterDue), string(entity.DateFilterUpcoming):
		filter.ReviewDue = entity.DateFilter(due)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "review_due must be due or upcoming")
	}

	plans, meta, err := h.carePlanService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: plans, Pagination: meta})
}

// Update handles PUT /api/v1/care-plans/:id
func (h *CarePlanHandler) Update(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req carePlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	input, err := req.toInput()
	if err != nil {
		return err
	}

	plan, err := h.carePlanService.Update(c.Request().Context(), *actor, id, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, plan)
}

// CreateVersion handles POST /api/v1/care-plans/:id/versions
func (h *CarePlanHandler) CreateVersion(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	planID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Summary  string `json:"summary"`
		Goals    string `json:"goals"`
		Activate bool   `json:"activate"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	version, err := h.carePlanService.CreateVersion(c.Request().Context(), *actor, planID, usecase.VersionInput{
		Summary:  req.Summary,
		Goals:    req.Goals,
		Activate: req.Activate,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, version)
}

// ListVersions handles GET /api/v1/care-plans/:id/versions
func (h *CarePlanHandler) ListVersions(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	planID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	versions, err := h.carePlanService.ListVersions(c.Request().Context(), *actor, planID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": versions})
}

// ActivateVersion handles POST /api/v1/care-plan-versions/:id/activate
func (h *CarePlanHandler) ActivateVersion(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	versionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.carePlanService.ActivateVersion(c.Request().Context(), *actor, versionID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ArchiveVersion handles POST /api/v1/care-plan-versions/:id/archive
func (h *CarePlanHandler) ArchiveVersion(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	versionID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.carePlanService.ArchiveVersion(c.Request().Context(), *actor, versionID); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateTask handles POST /api/v1/care-plans/:id/tasks
func (h *CarePlanHandler) CreateTask(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	planID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Title       string `json:"title" validate:"required,max=255"`
		Description string `json:"description"`
		AssignedTo  string `json:"assigned_to" validate:"omitempty,uuid"`
		DueDate     string `json:"due_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.AssignedTo != "" {
		assignee, err := uuidFromString(req.AssignedTo)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "assigned_to must be a valid UUID")
		}
		input.AssignedTo = &assignee
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		}
		input.DueDate = &due
	}

	task, err := h.carePlanService.CreateTask(c.Request().Context(), *actor, planID, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, task)
}

// TransitionTask handles PATCH /api/v1/care-plan-tasks/:id/status
func (h *CarePlanHandler) TransitionTask(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	taskID, err := pathUUID(c, "id")
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

	if err := h.carePlanService.TransitionTask(c.Request().Context(), *actor, taskID, model.TaskStatus(req.Status)); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTasks handles GET /api/v1/care-plan-tasks
func (h *CarePlanHandler) ListTasks(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.TaskFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	if filter.VersionID, err = queryUUID(c, "version_id"); err != nil {
		return err
	}
	if filter.AssignedTo, err = queryUUID(c, "assigned_to"); err != nil {
		return err
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.TaskStatus(raw)
		filter.Status = &status
	}

	tasks, meta, err := h.carePlanService.ListTasks(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: tasks, Pagination: meta})
}

// ScheduleReview handles POST /api/v1/care-plans/:id/reviews
func (h *CarePlanHandler) ScheduleReview(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	planID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		ScheduledFor string `json:"scheduled_for" validate:"required"`
		Notes        string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	scheduledFor, err := time.Parse(time.RFC3339, req.ScheduledFor)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "scheduled_for must be an RFC3339 timestamp")
	}

	review, err := h.carePlanService.ScheduleReview(c.Request().Context(), *actor, planID, scheduledFor, req.Notes)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// TransitionReview handles PATCH /api/v1/care-plan-reviews/:id/status
func (h *CarePlanHandler) TransitionReview(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	reviewID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status" validate:"required"`
		Notes  string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.carePlanService.TransitionReview(c.Request().Context(), *actor, reviewID, model.ReviewStatus(req.Status), req.Notes); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListReviews handles GET /api/v1/care-plan-reviews
func (h *CarePlanHandler) ListReviews(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.ReviewFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	if filter.CarePlanID, err = queryUUID(c, "care_plan_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.ReviewStatus(raw)
		filter.Status = &status
	}
	switch due := c.QueryParam("due"); due {
	case "", string(entity.DateFilterDue), string(entity.DateFilterUpcoming):
		filter.Due = entity.DateFilter(due)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "due must be due or upcoming")
	}

	reviews, meta, err := h.carePlanService.ListReviews(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: reviews, Pagination: meta})
}
