package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/teamflow/teamflow-api/docs"
	"github.com/teamflow/teamflow-api/internal/api/handler"
	"github.com/teamflow/teamflow-api/internal/api/middleware"
	"github.com/teamflow/teamflow-api/internal/core/service"
	"github.com/teamflow/teamflow-api/internal/infrastructure/config"
	mongorepo "github.com/teamflow/teamflow-api/internal/infrastructure/db/mongo"
	redisrepo "github.com/teamflow/teamflow-api/internal/infrastructure/db/redis"
	"github.com/teamflow/teamflow-api/internal/realtime"
)

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(
	cfg *config.Config,
	mongoClient *mongo.Client,
	db *mongo.Database,
	rdb *redis.Client,
	hub *realtime.Hub,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Production())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("teamflow"))

	// --- Dependencies ---
	userRepo := mongorepo.NewUserRepository(db)
	projectRepo := mongorepo.NewProjectRepository(db)
	taskRepo := mongorepo.NewTaskRepository(db)
	revoker := redisrepo.NewSessionRevoker(rdb)

	authService := service.NewAuthService(userRepo, revoker, cfg.JWTSecret, cfg.SessionTTL, log)
	projectService := service.NewProjectService(projectRepo, taskRepo, userRepo, hub, log)
	taskService := service.NewTaskService(taskRepo, projectRepo, userRepo, hub, log)

	authHandler := handler.NewAuthHandler(authService, cfg.Production())
	userHandler := handler.NewUserHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)
	wsHandler := handler.NewWSHandler(hub, projectRepo, cfg.FrontendURL, log)
	healthHandler := handler.NewHealthHandler(mongoClient, rdb)

	authRequired := middleware.Auth(cfg.JWTSecret, revoker)

	// --- Auth ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, authRequired)
	auth.GET("/me", authHandler.Me, authRequired)

	// --- Users ---
	users := e.Group("/api/users", authRequired)
	users.GET("", userHandler.List)
	users.PATCH("/me", userHandler.UpdateMe)

	// --- Projects ---
	projects := e.Group("/api/projects", authRequired)
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PATCH("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)
	projects.POST("/:id/invite", projectHandler.Invite)
	projects.POST("/:id/leave", projectHandler.Leave)

	// --- Tasks ---
	tasks := e.Group("/api/tasks", authRequired)
	tasks.GET("", taskHandler.List)
	tasks.GET("/mine", taskHandler.Mine)
	tasks.POST("", taskHandler.Create)
	tasks.GET("/:id", taskHandler.Get)
	tasks.PATCH("/:id", taskHandler.Update)
	tasks.PATCH("/:id/move", taskHandler.Move)
	tasks.DELETE("/:id", taskHandler.Delete)
	tasks.GET("/:id/comments", taskHandler.Comments)
	tasks.POST("/:id/comments", taskHandler.AddComment)

	// --- Realtime ---
	e.GET("/ws", wsHandler.Serve, authRequired)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// Echo's default write timeout is zero; websockets manage their own
	// deadlines, so only the server-level read header timeout is set here.
	e.Server.ReadHeaderTimeout = 10 * time.Second

	return e
}
