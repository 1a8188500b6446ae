package handlers

import (
	"net/http"
	"time"

	"crewmatch/internal/logging"
	"crewmatch/internal/workers"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

// WorkerStatsHandler returns worker pool statistics
func WorkerStatsHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		stats, err := poolManager.GetStats()
		if err != nil {
			logger.Error("Failed to get worker stats", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stats_unavailable",
				Message:   "Worker pool statistics are not available",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		response := map[string]interface{}{
			"success":    true,
			"stats":      stats,
			"request_id": requestID,
			"timestamp":  time.Now(),
		}

		return c.JSON(http.StatusOK, response)
	}
}

// WorkerHealthHandler returns worker pool health status
func WorkerHealthHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		healthy := poolManager.IsHealthy()
		status := "healthy"
		httpStatus := http.StatusOK

		if !healthy {
			status = "unhealthy"
			httpStatus = http.StatusServiceUnavailable
		}

		response := map[string]interface{}{
			"success":    healthy,
			"status":     status,
			"request_id": requestID,
			"timestamp":  time.Now(),
		}

		return c.JSON(httpStatus, response)
	}
}

// JobRateStatsHandler returns rate limiting statistics for a specific job
func JobRateStatsHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		jobID := c.Param("jobId")
		if jobID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_job_id",
				Message:   "Job ID parameter is required",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		stats, err := poolManager.GetJobStats(jobID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stats_unavailable",
				Message:   "Job rate statistics are not available",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		response := map[string]interface{}{
			"success":    true,
			"job_id":     jobID,
			"stats":      stats,
			"request_id": requestID,
			"timestamp":  time.Now(),
		}

		return c.JSON(http.StatusOK, response)
	}
}

// WorkerStatusResponse represents the status of the worker pool
type WorkerStatusResponse struct {
	Success         bool                   `json:"success"`
	Status          string                 `json:"status"`
	WorkerCount     int                    `json:"worker_count"`
	QueueSize       int                    `json:"queue_size"`
	TasksProcessed  int64                  `json:"tasks_processed"`
	TasksQueued     int64                  `json:"tasks_queued"`
	TasksSuccessful int64                  `json:"tasks_successful"`
	TasksFailed     int64                  `json:"tasks_failed"`
	Details         map[string]interface{} `json:"details,omitempty"`
	RequestID       string                 `json:"request_id"`
	Timestamp       time.Time              `json:"timestamp"`
}

// DetailedWorkerStatusHandler returns detailed worker pool status
func DetailedWorkerStatusHandler(poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		stats, err := poolManager.GetStats()
		if err != nil {
			logger.Error("Failed to get detailed worker stats", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "stats_unavailable",
				Message:   "Detailed worker statistics are not available",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		healthy := poolManager.IsHealthy()
		status := "healthy"
		if !healthy {
			status = "unhealthy"
		}

		response := WorkerStatusResponse{
			Success:         healthy,
			Status:          status,
			WorkerCount:     stats.WorkerCount,
			QueueSize:       stats.QueueCapacity,
			TasksProcessed:  stats.PoolStats.TasksProcessed,
			TasksQueued:     stats.PoolStats.TasksQueued,
			TasksSuccessful: stats.PoolStats.TasksSuccessful,
			TasksFailed:     stats.PoolStats.TasksFailed,
			Details: map[string]interface{}{
				"rate_limiter_stats":      stats.RateLimiterStats,
				"average_processing_time": stats.PoolStats.AverageProcessingTime,
				"total_processing_time":   stats.PoolStats.TotalProcessingTime,
			},
			RequestID: requestID,
			Timestamp: time.Now(),
		}

		return c.JSON(http.StatusOK, response)
	}
}
