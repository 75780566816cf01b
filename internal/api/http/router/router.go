package router

import (
	"github.com/gin-gonic/gin"

	apictx "github.com/pontoamd/ponto-server/internal/api/http/context"
	"github.com/pontoamd/ponto-server/internal/api/http/handler"
	"github.com/pontoamd/ponto-server/internal/api/http/middleware"
	"github.com/pontoamd/ponto-server/internal/logger"
	"github.com/pontoamd/ponto-server/internal/service"
)

// Router wires services, middleware and handlers into a gin engine.
type Router struct {
	authService       *service.Auth
	attendanceService *service.Attendance
	reportService     *service.Report
	locator           handler.Locator
	tokenParser       middleware.TokenParser
	contextManager    *apictx.Manager
	logger            *logger.Logger
}

// New creates a new Router instance.
func New(
	authService *service.Auth,
	attendanceService *service.Attendance,
	reportService *service.Report,
	locator handler.Locator,
	tokenParser middleware.TokenParser,
	contextManager *apictx.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:       authService,
		attendanceService: attendanceService,
		reportService:     reportService,
		locator:           locator,
		tokenParser:       tokenParser,
		contextManager:    contextManager,
		logger:            logger,
	}
}

// Register builds the gin engine with all routes and middleware.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenParser, r.contextManager, r.logger)

	authHandler := handler.NewAuth(r.authService, r.logger)
	attendanceHandler := handler.NewAttendance(r.attendanceService, r.locator, r.contextManager, r.logger)
	adminHandler := handler.NewAdmin(r.authService, r.attendanceService, r.reportService, r.contextManager, r.logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), logging.Handle)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	attendance := api.Group("/attendance", authenticate.Handle)
	attendance.GET("/next", attendanceHandler.NextAction)
	attendance.POST("/events", attendanceHandler.Commit)
	attendance.GET("/events", attendanceHandler.History)
	attendance.GET("/events/:id/photo", attendanceHandler.Evidence)

	admin := api.Group("/admin", authenticate.Handle, authenticate.AdminOnly)
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/:id/role", adminHandler.ToggleRole)
	admin.GET("/users/:id/events", adminHandler.UserHistory)
	admin.PUT("/events/:id", adminHandler.AmendEvent)
	admin.GET("/report", adminHandler.Report)
	admin.GET("/export", adminHandler.Export)

	return engine
}
