package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/healthics/portal/docs"
	"github.com/healthics/portal/internal/api/handler"
	"github.com/healthics/portal/internal/api/middleware"
	"github.com/healthics/portal/internal/core/domain"
	"github.com/healthics/portal/internal/core/ports"
	"github.com/healthics/portal/internal/core/service"
	"github.com/healthics/portal/internal/infrastructure/audit"
	"github.com/healthics/portal/internal/infrastructure/config"
	redisdb "github.com/healthics/portal/internal/infrastructure/db/redis"
	"github.com/healthics/portal/internal/infrastructure/upstream"
	"github.com/healthics/portal/pkg/logger"
)

// redisPinger adapts the raw client to the health handler's Pinger.
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// NewRouter wires the full gateway: upstream client and gateways, the
// Redis-backed session store and activity feed, the audit recorder, the
// core services, and the Echo route table with its guard chains.
func NewRouter(ctx context.Context, cfg *config.Config, redisClient *redis.Client) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("portal"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// Infrastructure.
	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log)
	authGw := upstream.NewAuthGateway(client)
	profileGw := upstream.NewProfileGateway(client)
	directoryGw := upstream.NewDirectoryGateway(client)
	documentGw := upstream.NewDocumentGateway(client)
	statsGw := upstream.NewStatsGateway(client)

	sessionStore := redisdb.NewSessionStore(redisClient, cfg.SessionTTL)
	activityLog := redisdb.NewActivityLog(redisClient)

	recorder := audit.NewRecorder(cfg.Audit.Workers, activityLog, log)
	recorder.Start(ctx)

	// Services.
	sessions := service.NewSessionService(authGw, sessionStore, recorder, cfg.JWTSecret, cfg.SessionTTL, log)
	patients := service.NewPatientService(profileGw, log)
	documents := service.NewDocumentService(documentGw, recorder, log)
	resolver := service.NewResolverService(directoryGw, documentGw, recorder, cfg.Upstream.DocFallback, log)
	admin := service.NewAdminService(directoryGw, documentGw, statsGw, activityLog, recorder, cfg.DemoMode, log)

	// An upstream 401 means the stored token is dead everywhere, not just
	// for the call that hit it.
	client.OnUnauthorized(func(ctx context.Context, sessionID string) {
		sessions.Invalidate(ctx, sessionID, "upstream_401")
	})

	// Handlers.
	authHandler := handler.NewAuthHandler(sessions, cfg.JWTSecret)
	patientHandler := handler.NewPatientHandler(patients)
	documentHandler := handler.NewDocumentHandler(documents)
	adminHandler := handler.NewAdminHandler(admin, resolver, documents)
	healthHandler := handler.NewHealthHandler(redisPinger{redisClient}, client)

	registerRoutes(e, cfg, sessionStore, authHandler, patientHandler, documentHandler, adminHandler, healthHandler)

	return e
}

func registerRoutes(
	e *echo.Echo,
	cfg *config.Config,
	store ports.SessionStore,
	auth *handler.AuthHandler,
	patient *handler.PatientHandler,
	document *handler.DocumentHandler,
	admin *handler.AdminHandler,
	health *handler.HealthHandler,
) {
	e.GET("/health", health.Live)
	e.GET("/health/ready", health.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.POST("/auth/login", auth.Login)
	api.POST("/auth/register", auth.Register)
	// logout stays public: it must still clear a session whose token the
	// auth middleware would already reject
	api.POST("/auth/logout", auth.Logout)

	authed := api.Group("", middleware.Auth(cfg.JWTSecret, store))

	patients := authed.Group("/patients", middleware.Guard(domain.GuardPatientOnly))
	patients.GET("/profile", patient.Get)
	patients.POST("/profile", patient.Create)
	patients.PUT("/profile", patient.Update)

	docs := authed.Group("/documents", middleware.Guard(domain.GuardPatientOnly))
	docs.GET("", document.List)
	docs.POST("", document.Upload)
	docs.GET("/categories", document.Categories)
	docs.GET("/:id", document.Get)
	docs.PUT("/:id", document.Update)
	docs.DELETE("/:id", document.Delete)
	docs.GET("/:id/download", document.Download)

	adm := authed.Group("/admin", middleware.Guard(domain.GuardAdminOnly))
	adm.GET("/patients", admin.ListPatientsWithProfiles)
	adm.GET("/patients/all", admin.ListPatients)
	adm.GET("/patients/:id/view", admin.PatientView)
	adm.PUT("/patients/:id/status", admin.SetPatientStatus)
	adm.PUT("/patients/:id/ban", admin.SetPatientBan)
	adm.GET("/patients/:id/documents", admin.ListPatientDocuments)
	adm.GET("/documents", admin.BrowseDocuments)
	adm.GET("/documents/:id/download", admin.DownloadDocument)
	adm.GET("/statistics", admin.Statistics)
	adm.GET("/statistics/extended", admin.ExtendedStatistics)
	adm.GET("/activity", admin.RecentActivity)
}
