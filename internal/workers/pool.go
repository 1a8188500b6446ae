package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/internal/pipeline"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// MatchResult represents the result of a matching run executed by a worker
type MatchResult struct {
	Response  *models.MatchResponse
	Error     error
	RequestID string
	Duration  time.Duration
}

// MatchTask represents a matching run to be processed by workers
type MatchTask struct {
	ID         string
	Request    *models.MatchRequest
	ResultChan chan MatchResult
	Context    context.Context
	CreatedAt  time.Time
}

// Worker represents a single worker goroutine
type Worker struct {
	ID       int
	TaskChan chan MatchTask
	QuitChan chan bool
	Pool     *WorkerPool
	logger   logging.Logger
}

// WorkerPool manages multiple worker goroutines and the task queue
type WorkerPool struct {
	config      *config.Config
	workers     []*Worker
	taskQueue   chan MatchTask
	dispatcher  *Dispatcher
	rateLimiter *RateLimiter
	engine      *pipeline.Engine
	logger      logging.Logger
	mu          sync.RWMutex
	running     bool
	stats       *PoolStats
}

// PoolStats tracks worker pool statistics
type PoolStats struct {
	mu                    sync.RWMutex
	TasksQueued           int64
	TasksProcessed        int64
	TasksSuccessful       int64
	TasksFailed           int64
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
}

// PoolStatsData is a copyable snapshot of PoolStats
type PoolStatsData struct {
	TasksQueued           int64         `json:"tasks_queued"`
	TasksProcessed        int64         `json:"tasks_processed"`
	TasksSuccessful       int64         `json:"tasks_successful"`
	TasksFailed           int64         `json:"tasks_failed"`
	TotalProcessingTime   time.Duration `json:"total_processing_time"`
	AverageProcessingTime time.Duration `json:"average_processing_time"`
}

// NewWorkerPool creates a new worker pool instance
func NewWorkerPool(cfg *config.Config, engine *pipeline.Engine) *WorkerPool {
	logger := logging.GetGlobalLogger()

	pool := &WorkerPool{
		config:      cfg,
		taskQueue:   make(chan MatchTask, cfg.Workers.QueueSize),
		rateLimiter: NewRateLimiter(cfg),
		engine:      engine,
		logger:      logger,
		stats:       &PoolStats{},
	}

	// Initialize workers
	pool.workers = make([]*Worker, cfg.Workers.PoolSize)
	for i := 0; i < cfg.Workers.PoolSize; i++ {
		worker := &Worker{
			ID:       i + 1,
			TaskChan: make(chan MatchTask),
			QuitChan: make(chan bool),
			Pool:     pool,
			logger:   logger.WithField("worker_id", i+1),
		}
		pool.workers[i] = worker
	}

	// Initialize dispatcher
	pool.dispatcher = NewDispatcher(pool.taskQueue, pool.workers)

	logger.Info("Worker pool initialized", map[string]interface{}{
		"pool_size": cfg.Workers.PoolSize,
	})
	return pool
}

// Start starts the worker pool
func (wp *WorkerPool) Start() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.running {
		return fmt.Errorf("worker pool is already running")
	}

	wp.logger.Info("Starting worker pool")

	// Start dispatcher
	wp.dispatcher.Start()

	// Start all workers
	for _, worker := range wp.workers {
		go worker.Start()
	}

	wp.running = true
	wp.logger.Info("Worker pool started successfully", map[string]interface{}{
		"workers": len(wp.workers),
	})
	return nil
}

// Stop stops the worker pool gracefully
func (wp *WorkerPool) Stop() error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if !wp.running {
		return nil
	}

	wp.logger.Info("Stopping worker pool")

	// Stop dispatcher first
	wp.dispatcher.Stop()

	// Stop all workers
	for _, worker := range wp.workers {
		worker.Stop()
	}

	// Close task queue
	close(wp.taskQueue)

	wp.running = false
	wp.logger.Info("Worker pool stopped successfully")
	return nil
}

// SubmitMatch submits a new matching run to the pool
func (wp *WorkerPool) SubmitMatch(ctx context.Context, request *models.MatchRequest) (*MatchResult, error) {
	if !wp.IsRunning() {
		return nil, fmt.Errorf("worker pool is not running")
	}

	// Check rate limit for the job
	if !wp.rateLimiter.Allow(request.JobID) {
		return nil, fmt.Errorf("rate limit exceeded for job: %s", request.JobID)
	}

	// Create task
	task := MatchTask{
		ID:         utils.GenerateRequestID(),
		Request:    request,
		ResultChan: make(chan MatchResult, 1),
		Context:    ctx,
		CreatedAt:  time.Now(),
	}

	// Update stats
	wp.stats.mu.Lock()
	wp.stats.TasksQueued++
	wp.stats.mu.Unlock()

	// Submit task to queue
	select {
	case wp.taskQueue <- task:
		wp.logger.Info("Matching task submitted to queue", map[string]interface{}{
			"task_id": task.ID,
			"job_id":  request.JobID,
		})
	case <-time.After(5 * time.Second):
		return nil, fmt.Errorf("task queue is full, request timed out")
	}

	// Wait for result with timeout
	timeout := wp.config.Workers.Timeout

	select {
	case result := <-task.ResultChan:
		return &result, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("matching run timed out after %v", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// IsRunning returns true if the worker pool is running
func (wp *WorkerPool) IsRunning() bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	return wp.running
}

// GetStats returns current pool statistics
func (wp *WorkerPool) GetStats() PoolStatsData {
	wp.stats.mu.RLock()
	defer wp.stats.mu.RUnlock()

	stats := PoolStatsData{
		TasksQueued:         wp.stats.TasksQueued,
		TasksProcessed:      wp.stats.TasksProcessed,
		TasksSuccessful:     wp.stats.TasksSuccessful,
		TasksFailed:         wp.stats.TasksFailed,
		TotalProcessingTime: wp.stats.TotalProcessingTime,
	}
	if stats.TasksProcessed > 0 {
		stats.AverageProcessingTime = stats.TotalProcessingTime / time.Duration(stats.TasksProcessed)
	}

	return stats
}

// Start starts the worker goroutine
func (w *Worker) Start() {
	w.logger.Info("Worker started")

	for {
		select {
		case task := <-w.TaskChan:
			w.processTask(task)
		case <-w.QuitChan:
			w.logger.Info("Worker stopping")
			return
		}
	}
}

// Stop stops the worker
func (w *Worker) Stop() {
	w.QuitChan <- true
}

// processTask processes a single matching task
func (w *Worker) processTask(task MatchTask) {
	startTime := time.Now()

	w.logger.Debug("Processing matching task", map[string]interface{}{
		"task_id":   task.ID,
		"worker_id": w.ID,
		"job_id":    task.Request.JobID,
	})

	// Update stats
	w.Pool.stats.mu.Lock()
	w.Pool.stats.TasksProcessed++
	w.Pool.stats.mu.Unlock()

	result := w.runMatch(task)

	// Update processing time stats
	processingTime := time.Since(startTime)
	result.Duration = processingTime

	w.Pool.stats.mu.Lock()
	w.Pool.stats.TotalProcessingTime += processingTime
	if result.Error != nil {
		w.Pool.stats.TasksFailed++
	} else {
		w.Pool.stats.TasksSuccessful++
	}
	w.Pool.stats.mu.Unlock()

	// Send result back (non-blocking)
	select {
	case task.ResultChan <- result:
		w.logger.Info("Matching task completed", map[string]interface{}{
			"task_id":         task.ID,
			"worker_id":       w.ID,
			"processing_time": processingTime,
			"success":         result.Error == nil,
		})
	case <-time.After(100 * time.Millisecond):
		w.logger.Debug("Result channel timeout - client may have disconnected", map[string]interface{}{
			"task_id":   task.ID,
			"worker_id": w.ID,
		})
	}
}

// runMatch performs the actual matching work
func (w *Worker) runMatch(task MatchTask) MatchResult {
	result := MatchResult{
		RequestID: task.ID,
	}

	response, err := w.Pool.engine.Match(task.Context, task.Request)
	if err != nil {
		result.Error = err
		w.Pool.rateLimiter.RecordFailure(task.Request.JobID, err)

		w.logger.Debug("Matching run failed", map[string]interface{}{
			"task_id":   task.ID,
			"worker_id": w.ID,
			"job_id":    task.Request.JobID,
			"error":     err.Error(),
		})
		return result
	}

	result.Response = response
	w.Pool.rateLimiter.RecordSuccess(task.Request.JobID)

	w.logger.Debug("Matching run completed successfully", map[string]interface{}{
		"task_id":   task.ID,
		"worker_id": w.ID,
		"job_id":    task.Request.JobID,
		"results":   response.Total,
	})

	return result
}
