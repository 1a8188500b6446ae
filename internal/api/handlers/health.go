package handlers

import (
	"net/http"
	"time"

	"crewmatch/internal/llm"
	"crewmatch/internal/logging"
	"crewmatch/internal/store"
	"crewmatch/internal/workers"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

const serviceVersion = "1.0.0" // TODO: Get from build info

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler handles readiness probe requests. The store is the only
// dependency that fails readiness; the AI services degrade at runtime instead.
func ReadinessHandler(st store.Store, llmManager *llm.Manager, poolManager *workers.PoolManager, redisClient *utils.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		checks := map[string]string{"api": "ok"}
		ready := true

		if err := st.Ping(ctx); err != nil {
			checks["store"] = "unreachable"
			ready = false
		} else {
			checks["store"] = "ok"
		}

		if redisClient == nil {
			checks["redis"] = "not configured"
		} else if err := redisClient.Ping(ctx); err != nil {
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "ok"
		}

		if poolManager.IsHealthy() {
			checks["workers"] = "ok"
		} else {
			checks["workers"] = "not running"
			ready = false
		}

		if llmManager != nil && llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "degraded"
		}

		status := "ready"
		httpStatus := http.StatusOK
		if !ready {
			status = "not ready"
			httpStatus = http.StatusServiceUnavailable
		}

		return c.JSON(httpStatus, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// StatusHandler provides detailed service status
func StatusHandler(llmManager *llm.Manager, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		checks := map[string]string{"api": "operational"}

		if poolManager.IsHealthy() {
			checks["workers"] = "operational"
		} else {
			checks["workers"] = "down"
		}

		if llmManager != nil && llmManager.IsHealthy() {
			checks["llm"] = llmManager.GetProviderName()
		} else {
			checks["llm"] = "degraded"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "operational",
			Timestamp: time.Now(),
			Version:   serviceVersion,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	response := models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   serviceVersion,
		Uptime:    time.Since(startTime),
	}

	return c.JSON(http.StatusOK, response)
}
