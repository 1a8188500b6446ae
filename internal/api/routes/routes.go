package routes

import (
	"net/http"
	"time"

	"crewmatch/internal/api/handlers"
	"crewmatch/internal/api/middleware"
	"crewmatch/internal/background"
	"crewmatch/internal/config"
	"crewmatch/internal/llm"
	"crewmatch/internal/pipeline"
	"crewmatch/internal/store"
	"crewmatch/internal/workers"
	"crewmatch/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, st store.Store, engine *pipeline.Engine, poolManager *workers.PoolManager, llmManager *llm.Manager, taskManager background.TaskManager, redisClient *utils.RedisClient) {
	// Global middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSConfig())
	e.Use(middleware.RequestValidation())
	// Matching endpoints wait on external AI services and get a longer timeout
	e.Use(middleware.SelectiveTimeoutConfig(cfg.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(st, llmManager, poolManager, redisClient))
		health.GET("/live", handlers.LivenessHandler)
		health.GET("/workers", handlers.WorkerHealthHandler(poolManager))
	}

	// Status route
	e.GET("/status", handlers.StatusHandler(llmManager, poolManager))

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		match := v1.Group("/match")
		{
			match.POST("", handlers.MatchHandler(cfg, poolManager, redisClient))
			match.POST("/async", handlers.AsyncMatchHandler(cfg, taskManager, poolManager))
			match.GET("/status/:processId", handlers.MatchStatusHandler(taskManager))
			match.POST("/jobs", handlers.JobsForCandidateHandler(cfg, engine))
			match.POST("/jobs/async", handlers.AsyncJobRankHandler(cfg, taskManager, engine))
		}

		// Worker monitoring routes
		workerRoutes := v1.Group("/workers")
		{
			workerRoutes.GET("/stats", handlers.WorkerStatsHandler(poolManager))
			workerRoutes.GET("/status", handlers.DetailedWorkerStatusHandler(poolManager))
		}

		// Job-specific rate limiting stats
		jobs := v1.Group("/jobs")
		{
			jobs.GET("/:jobId/rate-stats", handlers.JobRateStatsHandler(poolManager))
		}
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Crewmatch Matching Service",
			"version": "1.0.0",
			"status":  "running",
		})
	})
}
