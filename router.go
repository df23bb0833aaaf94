package main

import (
	"time"

	"secondbrain/config"
	"secondbrain/handler"
	"secondbrain/middleware"
	"secondbrain/repository"
	"secondbrain/services"
	"secondbrain/usecase"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
)

type routerDeps struct {
	db *mongo.Database
	// nil when no Redis is configured.
	blacklist *services.TokenBlacklist
}

func setupRouter(cfg config.Config, deps routerDeps) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RecoveryMiddleware(),
		middleware.RequestTracingMiddleware(),
		middleware.RequestLogger(),
		middleware.MetricsMiddleware(),
		middleware.CORSMiddleware(cfg.HTTP.AllowedOrigins),
		middleware.RequestSizeLimiter(cfg.HTTP.MaxBodyBytes),
	)

	notesRepo := repository.GetNotesRepo(deps.db, cfg.Mongo.NotesCollection)
	tasksRepo := repository.GetTasksRepo(deps.db, cfg.Mongo.TasksCollection)

	notesService := usecase.NewNotesService(notesRepo)
	tasksService := usecase.NewTasksService(tasksRepo)
	dashboardService := usecase.NewDashboardService(notesRepo, tasksRepo,
		usecase.NewAggregationService(notesRepo, tasksRepo))

	checks := map[string]handler.HealthCheck{"mongo": mongoHealth(deps.db)}

	// A nil *TokenBlacklist must not reach the middleware as a non-nil
	// interface.
	var revoked middleware.RevocationList
	if deps.blacklist != nil {
		revoked = deps.blacklist
		checks["redis"] = deps.blacklist.Ping
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.CacheControlMiddleware("no-store"))
	api.GET("/health", handler.NewHealthHandler(time.Now(), checks).Health)

	protected := api.Group("", middleware.AuthMiddleware(cfg.JWT.SecretKey, cfg.JWT.Issuer, revoked))
	{
		nh := handler.NewNotesHandler(notesService)
		notes := protected.Group("/notes")
		notes.GET("", nh.ListNotes)
		notes.POST("", nh.CreateNote)
		notes.GET("/stats/summary", nh.Summary)
		notes.GET("/:id", nh.GetNote)
		notes.PUT("/:id", nh.UpdateNote)
		notes.DELETE("/:id", nh.DeleteNote)
		notes.PATCH("/:id/pin", nh.TogglePin)

		th := handler.NewTasksHandler(tasksService)
		tasks := protected.Group("/tasks")
		tasks.GET("", th.ListTasks)
		tasks.POST("", th.CreateTask)
		tasks.GET("/stats/summary", th.Summary)
		tasks.GET("/:id", th.GetTask)
		tasks.PUT("/:id", th.UpdateTask)
		tasks.DELETE("/:id", th.DeleteTask)
		tasks.PATCH("/:id/status", th.UpdateStatus)
		tasks.POST("/:id/notes", th.AddNote)

		dh := handler.NewDashboardHandler(dashboardService)
		dashboard := protected.Group("/dashboard")
		dashboard.GET("/overview", dh.Overview)
		dashboard.GET("/activity", dh.Activity)
		dashboard.GET("/search", dh.Search)
		dashboard.GET("/stats", dh.Stats)
	}

	return router
}
