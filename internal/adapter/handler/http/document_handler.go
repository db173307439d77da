package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// DocumentHandler handles document store HTTP requests. Routes are shaped
// as /documents/:entityType/:entityId where entityType is "clients" or
// "care-homes".
type DocumentHandler struct {
	logger          *zap.Logger
	documentService *usecase.DocumentService
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(logger *zap.Logger, documentService *usecase.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		logger:          logger,
		documentService: documentService,
	}
}

// List handles GET /api/v1/documents/:entityType/:entityId
func (h *DocumentHandler) List(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	entityID, err := pathUUID(c, "entityId")
	if err != nil {
		return err
	}

	entries, err := h.documentService.List(c.Request().Context(), *actor,
		entity.DocumentEntityType(c.Param("entityType")), entityID, c.QueryParam("folder"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": entries})
}

// CreateFolder handles POST /api/v1/documents/:entityType/:entityId/folders
func (h *DocumentHandler) CreateFolder(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	entityID, err := pathUUID(c, "entityId")
	if err != nil {
		return err
	}

	var req struct {
		Folder string `json:"folder" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.documentService.CreateFolder(c.Request().Context(), *actor,
		entity.DocumentEntityType(c.Param("entityType")), entityID, req.Folder); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Upload handles POST /api/v1/documents/:entityType/:entityId/files
func (h *DocumentHandler) Upload(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	entityID, err := pathUUID(c, "entityId")
	if err != nil {
		return err
	}

	var req struct {
		Path        string `json:"path" validate:"required"`
		ContentB64  string `json:"content_base64" validate:"required"`
		ContentType string `json:"content_type"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.documentService.Upload(c.Request().Context(), *actor,
		entity.DocumentEntityType(c.Param("entityType")), entityID,
		req.Path, req.ContentB64, req.ContentType); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.NoContent(http.StatusCreated)
}

// Read handles GET /api/v1/documents/:entityType/:entityId/file
func (h *DocumentHandler) Read(c echo.Context) error {
	actor, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}
	entityID, err := pathUUID(c, "entityId")
	if err != nil {
		return err
	}

	relPath := c.QueryParam("path")
	if relPath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "path query parameter is required")
	}

	content, err := h.documentService.Read(c.Request().Context(), *actor,
		entity.DocumentEntityType(c.Param("entityType")), entityID, relPath)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, content)
}
