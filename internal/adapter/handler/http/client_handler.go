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

// ClientHandler handles client HTTP requests
type ClientHandler struct {
	logger        *zap.Logger
	clientService *usecase.ClientService
}

// NewClientHandler creates a new client handler instance
func NewClientHandler(logger *zap.Logger, clientService *usecase.ClientService) *ClientHandler {
	return &ClientHandler{
		logger:        logger,
		clientService: clientService,
	}
}

type clientRequest struct {
	CareHomeID  string `json:"care_home_id" validate:"required,uuid"`
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	ClientType  string `json:"client_type" validate:"omitempty,oneof=adult child"`
	RoomNumber  string `json:"room_number" validate:"max=20"`
}

func (r clientRequest) toInput() (usecase.ClientInput, error) {
	careHomeID, err := uuidFromString(r.CareHomeID)
	if err != nil {
		return usecase.ClientInput{}, echo.NewHTTPError(http.StatusBadRequest, "care_home_id must be a valid UUID")
	}
	dob, err := time.Parse("2006-01-02", r.DateOfBirth)
	if err != nil {
		return usecase.ClientInput{}, echo.NewHTTPError(http.StatusBadRequest, "date_of_birth must be YYYY-MM-DD")
	}

	input := usecase.ClientInput{
		CareHomeID:  careHomeID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		RoomNumber:  r.RoomNumber,
	}
	if r.ClientType != "" {
		ct := model.ClientType(r.ClientType)
		input.ClientType = &ct
	}
	return input, nil
}

// Create handles POST /api/v1/clients
func (h *ClientHandler) Create(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var req clientRequest
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

	client, err := h.clientService.Create(c.Request().Context(), *actor, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, client)
}

// Get handles GET /api/v1/clients/:id
func (h *ClientHandler) Get(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	client, err := h.clientService.Get(c.Request().Context(), *actor, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, client)
}

// List handles GET /api/v1/clients
func (h *ClientHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	var filter entity.ClientFilter
	if err := c.Bind(&filter.PaginationParams); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination parameters")
	}
	filter.Search = c.QueryParam("search")
	filter.IncludeInactive = c.QueryParam("include_inactive") == "true"
	if filter.CareHomeID, err = queryUUID(c, "care_home_id"); err != nil {
		return err
	}
	if raw := c.QueryParam("client_type"); raw != "" {
		ct := model.ClientType(raw)
		if ct != model.ClientTypeAdult && ct != model.ClientTypeChild {
			return echo.NewHTTPError(http.StatusBadRequest, "client_type must be adult or child")
		}
		filter.ClientType = &ct
	}

	clients, meta, err := h.clientService.List(c.Request().Context(), *actor, filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: clients, Pagination: meta})
}

// Update handles PUT /api/v1/clients/:id
func (h *ClientHandler) Update(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req clientRequest
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

	client, err := h.clientService.Update(c.Request().Context(), *actor, id, input)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, client)
}

// SetActive handles PATCH /api/v1/clients/:id/active
func (h *ClientHandler) SetActive(c echo.Context) error {
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

	if err := h.clientService.SetActive(c.Request().Context(), *actor, id, req.Active); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusNoContent)
}
