package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/opsdeck/admin-console/docs"
	"github.com/opsdeck/admin-console/internal/api/handler"
	"github.com/opsdeck/admin-console/internal/api/middleware"
	"github.com/opsdeck/admin-console/internal/core/domain"
	"github.com/opsdeck/admin-console/internal/core/guard"
	"github.com/opsdeck/admin-console/internal/core/ports"
	"github.com/opsdeck/admin-console/internal/core/service"
	"github.com/opsdeck/admin-console/internal/infrastructure/http/handlers"
)

const (
	loginPath  = "/login"
	deniedPath = "/unauthorized"
)

// Deps carries the already-constructed collaborators the router wires up.
// Construction happens in main; the router only connects routes to them.
type Deps struct {
	Sessions   *service.SessionManager
	Backend    ports.BackendClient
	Audit      ports.AuditRecorder
	Redis      *redis.Client
	Mongo      *mongo.Database
	BackendURL string
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("console"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Sessions, d.Backend)
	consoleHandler := handler.NewConsoleHandler()
	auditHandler := handler.NewAuditHandler(d.Audit)

	// --- Guards ---
	access := middleware.Require(d.Sessions, guard.Access(loginPath))
	adminOnly := middleware.Require(d.Sessions, guard.Role(loginPath, deniedPath, domain.RoleAdmin))

	// --- Session routes ---
	e.GET(loginPath, consoleHandler.LoginPage)
	e.POST(loginPath, authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)
	e.GET(deniedPath, consoleHandler.Unauthorized)

	// --- Console views ---
	e.GET("/", consoleHandler.Home)
	e.GET("/dashboard", consoleHandler.Dashboard, access)

	adminGroup := e.Group("/admin", adminOnly)
	adminGroup.GET("/audit", auditHandler.Recent)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Mongo, d.Redis, d.BackendURL)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
