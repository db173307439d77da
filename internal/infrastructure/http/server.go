// Package http wires the echo server: middleware, validation and routes.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/clearviewcare/carehome-server/internal/adapter/handler/http"
	"github.com/clearviewcare/carehome-server/internal/config"
	domainRepo "github.com/clearviewcare/carehome-server/internal/domain/repository"
	"github.com/clearviewcare/carehome-server/internal/middleware/auth"
	"github.com/clearviewcare/carehome-server/internal/usecase"
)

// Services bundles the usecase layer the server exposes.
type Services struct {
	CareHome     *usecase.CareHomeService
	Client       *usecase.ClientService
	CarePlan     *usecase.CarePlanService
	Incident     *usecase.IncidentService
	Handover     *usecase.HandoverService
	Notification *usecase.NotificationService
	User         *usecase.UserService
	Document     *usecase.DocumentService
	Dashboard    *usecase.DashboardService
	Audit        *usecase.AuditService
	Profiles     domainRepo.ProfileRepository
}

// Server is the HTTP front of the carehome API.
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	echo     *echo.Echo
	services *Services
}

// CustomValidator adapts go-playground/validator to echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator.
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// NewServer creates the HTTP server with middleware and validation wired.
func NewServer(cfg *config.Config, logger *zap.Logger, services *Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.PATCH, echo.DELETE},
	}))

	return &Server{
		config:   cfg,
		logger:   logger,
		echo:     e,
		services: services,
	}
}

// Start sets up routes and begins serving.
func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Initialize handlers
	careHomeHandler := handlers.NewCareHomeHandler(s.logger, s.services.CareHome)
	clientHandler := handlers.NewClientHandler(s.logger, s.services.Client)
	carePlanHandler := handlers.NewCarePlanHandler(s.logger, s.services.CarePlan)
	incidentHandler := handlers.NewIncidentHandler(s.logger, s.services.Incident)
	handoverHandler := handlers.NewHandoverHandler(s.logger, s.services.Handover)
	notificationHandler := handlers.NewNotificationHandler(s.logger, s.services.Notification)
	userHandler := handlers.NewUserHandler(s.logger, s.services.User)
	auditHandler := handlers.NewAuditHandler(s.logger, s.services.Audit)
	documentHandler := handlers.NewDocumentHandler(s.logger, s.services.Document)
	dashboardHandler := handlers.NewDashboardHandler(s.logger, s.services.Dashboard)

	jwtConfig := auth.JWTConfig{
		Secret:    s.config.JWT.Secret,
		Profiles:  s.services.Profiles,
		Logger:    s.logger,
		SkipPaths: []string{"/health"},
	}

	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	// Dashboard
	v1.GET("/dashboard", dashboardHandler.Summary)

	// Care homes and manager assignments
	careHomes := v1.Group("/care-homes")
	careHomes.POST("", careHomeHandler.Create)
	careHomes.GET("", careHomeHandler.List)
	careHomes.GET("/:id", careHomeHandler.Get)
	careHomes.PUT("/:id", careHomeHandler.Update)
	careHomes.PATCH("/:id/active", careHomeHandler.SetActive)
	careHomes.GET("/:id/managers", careHomeHandler.ListManagers)
	careHomes.POST("/:id/managers", careHomeHandler.AssignManager)
	careHomes.DELETE("/:id/managers/:managerId", careHomeHandler.UnassignManager)

	// Clients
	clients := v1.Group("/clients")
	clients.POST("", clientHandler.Create)
	clients.GET("", clientHandler.List)
	clients.GET("/:id", clientHandler.Get)
	clients.PUT("/:id", clientHandler.Update)
	clients.PATCH("/:id/active", clientHandler.SetActive)

	// Care plans, versions, tasks and reviews
	carePlans := v1.Group("/care-plans")
	carePlans.POST("", carePlanHandler.Create)
	carePlans.GET("", carePlanHandler.List)
	carePlans.GET("/:id", carePlanHandler.Get)
	carePlans.PUT("/:id", carePlanHandler.Update)
	carePlans.POST("/:id/versions", carePlanHandler.CreateVersion)
	carePlans.GET("/:id/versions", carePlanHandler.ListVersions)
	carePlans.POST("/:id/tasks", carePlanHandler.CreateTask)
	carePlans.POST("/:id/reviews", carePlanHandler.ScheduleReview)

	v1.POST("/care-plan-versions/:id/activate", carePlanHandler.ActivateVersion)
	v1.POST("/care-plan-versions/:id/archive", carePlanHandler.ArchiveVersion)
	v1.GET("/care-plan-tasks", carePlanHandler.ListTasks)
	v1.PATCH("/care-plan-tasks/:id/status", carePlanHandler.TransitionTask)
	v1.GET("/care-plan-reviews", carePlanHandler.ListReviews)
	v1.PATCH("/care-plan-reviews/:id/status", carePlanHandler.TransitionReview)

	// Incidents, actions and followups
	incidents := v1.Group("/incidents")
	incidents.POST("", incidentHandler.Create)
	incidents.GET("", incidentHandler.List)
	incidents.GET("/:id", incidentHandler.Get)
	incidents.PATCH("/:id/status", incidentHandler.Transition)
	incidents.POST("/:id/actions", incidentHandler.CreateAction)
	incidents.GET("/:id/actions", incidentHandler.ListActions)
	incidents.POST("/:id/followups", incidentHandler.AddFollowup)
	incidents.GET("/:id/followups", incidentHandler.ListFollowups)
	v1.PATCH("/incident-actions/:id/status", incidentHandler.TransitionAction)

	// Handovers
	handovers := v1.Group("/handovers")
	handovers.POST("", handoverHandler.Create)
	handovers.GET("", handoverHandler.List)
	handovers.GET("/:id", handoverHandler.Get)
	handovers.POST("/:id/complete", handoverHandler.Complete)

	// Notification queue administration (owner only, enforced in usecase)
	notifications := v1.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.GET("/:id", notificationHandler.Get)
	notifications.POST("/:id/retry", notificationHandler.Retry)
	notifications.POST("/:id/cancel", notificationHandler.Cancel)
	notifications.POST("/:id/mark-sent", notificationHandler.MarkSent)

	// User administration (owner only, enforced in usecase)
	users := v1.Group("/users")
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id/role", userHandler.ChangeRole)
	users.PATCH("/:id/active", userHandler.SetActive)

	// Audit feed
	v1.GET("/audit-events", auditHandler.List)

	// Documents
	documents := v1.Group("/documents/:entityType/:entityId")
	documents.GET("", documentHandler.List)
	documents.POST("/folders", documentHandler.CreateFolder)
	documents.POST("/files", documentHandler.Upload)
	documents.GET("/file", documentHandler.Read)
}
