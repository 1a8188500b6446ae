package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"crewmatch/internal/background"
	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/internal/pipeline"
	"crewmatch/internal/workers"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate = validator.New()

// MatchHandler handles synchronous matching requests using the worker pool.
// Sanitized shortlists are cached per (job, viewer, limit); the cache is
// consulted before any pipeline work happens.
func MatchHandler(cfg *config.Config, poolManager *workers.PoolManager, redisClient *utils.RedisClient) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.MatchRequest
		if err := c.Bind(&req); err != nil {
			logger.Error("Failed to bind match request", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			logger.Error("Match request validation failed", map[string]interface{}{
				"request_id": requestID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		ctx := c.Request().Context()
		viewer := utils.GetStringOrDefault(req.Viewer, models.ViewerOperator)
		limit := req.Limit
		if limit <= 0 {
			limit = cfg.Matching.DefaultLimit
		}

		// Overrides change the requirement set, so those runs bypass the cache.
		cacheable := redisClient != nil && req.Overrides == nil
		if cacheable {
			cached, err := redisClient.GetCachedShortlist(ctx, req.JobID, viewer, limit)
			if err != nil {
				logger.Warn("Shortlist cache read failed", map[string]interface{}{
					"request_id": requestID,
					"job_id":     req.JobID,
					"error":      err.Error(),
				})
			} else if cached != nil {
				logger.Info("Shortlist served from cache", map[string]interface{}{
					"request_id": requestID,
					"job_id":     req.JobID,
					"viewer":     viewer,
				})
				return c.JSON(http.StatusOK, models.MatchResponse{
					Success:        true,
					JobID:          cached.JobID,
					Viewer:         cached.Viewer,
					Results:        cached.Results,
					Total:          cached.Total,
					DegradedStages: cached.DegradedStages,
					ProcessingTime: time.Since(startTime),
					RequestID:      requestID,
				})
			}
		}

		result, err := poolManager.SubmitMatch(ctx, &req)
		if err != nil {
			logger.Error("Failed to submit matching run to worker pool", map[string]interface{}{
				"request_id": requestID,
				"job_id":     req.JobID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:     "match_submission_failed",
				Message:   fmt.Sprintf("Failed to submit matching run: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if result.Error != nil {
			return matchErrorResponse(c, requestID, result.Error)
		}

		response := result.Response
		response.RequestID = requestID

		if cacheable {
			if err := redisClient.CacheShortlist(ctx, &utils.CachedShortlist{
				JobID:          response.JobID,
				Viewer:         response.Viewer,
				Results:        response.Results,
				Total:          response.Total,
				DegradedStages: response.DegradedStages,
			}, limit); err != nil {
				logger.Warn("Shortlist cache write failed", map[string]interface{}{
					"request_id": requestID,
					"job_id":     response.JobID,
					"error":      err.Error(),
				})
			}
		}

		logger.Info("Match request completed", map[string]interface{}{
			"request_id":      requestID,
			"job_id":          response.JobID,
			"viewer":          response.Viewer,
			"results":         response.Total,
			"degraded_stages": response.DegradedStages,
			"processing_time": time.Since(startTime),
		})

		return c.JSON(http.StatusOK, response)
	}
}

// AsyncMatchHandler accepts a matching request for background processing and
// returns a process ID immediately.
func AsyncMatchHandler(cfg *config.Config, taskManager background.TaskManager, poolManager *workers.PoolManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.MatchRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		processID := utils.GenerateMatchProcessID()

		logger.Info("Submitting matching run for background processing", map[string]interface{}{
			"request_id": requestID,
			"process_id": processID,
			"job_id":     req.JobID,
		})

		ctx := c.Request().Context()
		if err := taskManager.SubmitMatchTask(ctx, processID, &req, poolManager); err != nil {
			logger.Error("Failed to submit background match task", map[string]interface{}{
				"request_id": requestID,
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_submission_failed",
				Message:   fmt.Sprintf("Failed to submit matching task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusAccepted, models.AsyncTaskResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
			Timestamp: time.Now(),
		})
	}
}

// MatchStatusHandler returns the status or result of a background task.
func MatchStatusHandler(taskManager background.TaskManager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()

		processID := c.Param("processId")
		if processID == "" {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "missing_process_id",
				Message:   "Process ID parameter is required",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		result, err := taskManager.GetTaskResult(c.Request().Context(), processID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:     "task_not_found",
				Message:   fmt.Sprintf("No task found for process ID %s", processID),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusOK, result)
	}
}

// JobsForCandidateHandler handles the symmetric ranking: all open jobs scored
// for one candidate.
func JobsForCandidateHandler(cfg *config.Config, engine *pipeline.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.JobsForCandidateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		response, err := engine.MatchJobsForCandidate(c.Request().Context(), &req)
		if err != nil {
			return matchErrorResponse(c, requestID, err)
		}
		response.RequestID = requestID

		logger.Info("Job ranking request completed", map[string]interface{}{
			"request_id":      requestID,
			"candidate_id":    response.CandidateID,
			"results":         response.Total,
			"processing_time": time.Since(startTime),
		})

		return c.JSON(http.StatusOK, response)
	}
}

// AsyncJobRankHandler accepts a job ranking request for background processing.
func AsyncJobRankHandler(cfg *config.Config, taskManager background.TaskManager, engine *pipeline.Engine) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		var req models.JobsForCandidateRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:     "invalid_request",
				Message:   "Invalid request format",
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		if err := validate.Struct(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
				Error:     "validation_failed",
				Message:   err.Error(),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		processID := utils.GenerateJobRankProcessID()

		ctx := c.Request().Context()
		if err := taskManager.SubmitJobRankTask(ctx, processID, &req, engine); err != nil {
			logger.Error("Failed to submit background job rank task", map[string]interface{}{
				"request_id": requestID,
				"process_id": processID,
				"error":      err.Error(),
			})
			return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:     "task_submission_failed",
				Message:   fmt.Sprintf("Failed to submit job ranking task: %v", err),
				RequestID: requestID,
				Timestamp: time.Now(),
			})
		}

		return c.JSON(http.StatusAccepted, models.AsyncTaskResponse{
			ProcessID: processID,
			Status:    string(background.TaskStatusAccepted),
			Timestamp: time.Now(),
		})
	}
}

// matchErrorResponse maps pipeline errors onto HTTP status codes.
func matchErrorResponse(c echo.Context, requestID string, err error) error {
	var custom *utils.CustomError
	if errors.As(err, &custom) {
		return c.JSON(custom.Code, models.ErrorResponse{
			Error:     "match_failed",
			Message:   custom.Error(),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "match_failed",
		Message:   err.Error(),
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
