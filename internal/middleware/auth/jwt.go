package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/clearviewcare/carehome-server/internal/domain/entity"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
)

// contextKey is used for storing the actor in context
type contextKey string

const actorContextKey contextKey = "authenticated_actor"

// JWTConfig holds the configuration for JWT middleware
type JWTConfig struct {
	Secret string
	// Profiles is the authoritative source for role and activation state.
	// Claims carried in the token are never trusted for authorization.
	Profiles  domainRepo.ProfileRepository
	Logger    *zap.Logger
	SkipPaths []string // Paths to skip JWT validation
}

// JWTMiddleware validates tokens from the hosted auth provider and loads
// the actor's profile. The profile row decides role and activation; a
// deactivated profile is rejected even with a valid token.
func JWTMiddleware(config JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, skipPath := range config.SkipPaths {
				if strings.HasPrefix(path, skipPath) {
					return next(c)
				}
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				config.Logger.Warn("Missing authorization header",
					zap.String("path", path),
					zap.String("method", c.Request().Method))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Authorization header required",
					"code":  "MISSING_AUTH_HEADER",
				})
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				config.Logger.Warn("Invalid authorization header format",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid authorization header format. Expected: Bearer <token>",
					"code":  "INVALID_AUTH_FORMAT",
				})
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(config.Secret), nil
			})
			if err != nil {
				config.Logger.Warn("JWT validation failed",
					zap.Error(err),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid or expired token",
					"code":  "INVALID_TOKEN",
				})
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok || !token.Valid {
				config.Logger.Warn("Invalid JWT claims",
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token claims",
					"code":  "INVALID_CLAIMS",
				})
			}

			subject, _ := claims["sub"].(string)
			profileID, err := uuid.Parse(subject)
			if err != nil {
				config.Logger.Warn("Token subject is not a profile id",
					zap.String("path", path),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Invalid token subject",
					"code":  "INVALID_SUBJECT",
				})
			}

			profile, err := config.Profiles.GetByID(c.Request().Context(), profileID)
			if err != nil {
				config.Logger.Warn("Failed to load profile for token",
					zap.String("profile_id", subject),
					zap.Error(err))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Unknown profile",
					"code":  "UNKNOWN_PROFILE",
				})
			}
			if !profile.IsActive {
				config.Logger.Warn("Deactivated profile attempted access",
					zap.String("profile_id", subject),
					zap.String("path", path))
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"error": "Profile is deactivated",
					"code":  "PROFILE_DEACTIVATED",
				})
			}

			actor := &entity.Actor{
				ID:    profile.ID,
				Email: profile.Email,
				Role:  profile.Role,
			}

			ctx := context.WithValue(c.Request().Context(), actorContextKey, actor)
			c.SetRequest(c.Request().WithContext(ctx))

			config.Logger.Debug("Actor authenticated",
				zap.String("profile_id", subject),
				zap.String("role", string(profile.Role)),
				zap.String("path", path))

			return next(c)
		}
	}
}

// GetActorFromContext extracts the authenticated actor from the request context
func GetActorFromContext(c echo.Context) (*entity.Actor, error) {
	actor, ok := c.Request().Context().Value(actorContextKey).(*entity.Actor)
	if !ok || actor == nil {
		return nil, fmt.Errorf("no authenticated actor found in context")
	}
	return actor, nil
}

// RequireAuth is a helper function to get the actor or return an error response
func RequireAuth(c echo.Context) (*entity.Actor, error) {
	actor, err := GetActorFromContext(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{
			"error": "Authentication required",
			"code":  "AUTH_REQUIRED",
		})
	}
	return actor, nil
}
