// Package http contains the echo handlers for the carehome API.
package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainerrors "github.com/clearviewcare/carehome-server/internal/domain/errors"
)

// listResponse is the common envelope for paginated collections.
type listResponse struct {
	Data       interface{}           `json:"data"`
	Pagination entity.PaginationMeta `json:"pagination"`
}

// respondError maps core-layer errors onto HTTP status codes. Masked rows
// and genuinely missing rows share the same 404.
func respondError(c echo.Context, logger *zap.Logger, err error) error {
	var ve *domainerrors.ValidationError
	var te *domainerrors.TransitionError

	switch {
	case errors.Is(err, domainerrors.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "record not found",
			"code":  "NOT_FOUND",
		})
	case errors.Is(err, domainerrors.ErrNotPermitted):
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "operation not permitted",
			"code":  "FORBIDDEN",
		})
	case errors.Is(err, domainerrors.ErrNoActiveVersion):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": err.Error(),
			"code":  "NO_ACTIVE_VERSION",
		})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": te.Error(),
			"code":  "INVALID_TRANSITION",
		})
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": ve.Error(),
			"code":  "INVALID_ARGUMENT",
		})
	case errors.Is(err, domainerrors.ErrScopeUnavailable):
		logger.Error("Scope resolution failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"error": "temporarily unable to resolve access scope",
			"code":  "SCOPE_UNAVAILABLE",
		})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal server error",
			"code":  "INTERNAL",
		})
	}
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return id, nil
}

// uuidFromString parses a UUID carried in a request body field.
func uuidFromString(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// queryUUID parses an optional UUID query parameter.
func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a valid UUID")
	}
	return &id, nil
}
