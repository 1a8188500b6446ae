package workers

import (
	"strings"
	"sync"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"

	"golang.org/x/time/rate"
)

// JobLimiter represents rate limiting state for a specific job
type JobLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	requests int64
	failures int64
	mu       sync.RWMutex
}

// CircuitBreaker trips when repeated matching runs for a job fail, which
// usually means the job record or a downstream dependency is broken
type CircuitBreaker struct {
	maxFailures  int
	resetTimeout time.Duration
	failureCount int
	lastFailTime time.Time
	state        CircuitState
	mu           sync.RWMutex
}

// CircuitState represents the state of a circuit breaker
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

// RateLimiter manages rate limiting and circuit breaking per job. Keying on
// the job keeps one hot shortlist from monopolizing LLM and reranker quota.
type RateLimiter struct {
	config          *config.Config
	jobLimiters     map[string]*JobLimiter
	circuitBreakers map[string]*CircuitBreaker
	mu              sync.RWMutex
	logger          logging.Logger
	cleanupTicker   *time.Ticker
	stopCleanup     chan bool
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	rl := &RateLimiter{
		config:          cfg,
		jobLimiters:     make(map[string]*JobLimiter),
		circuitBreakers: make(map[string]*CircuitBreaker),
		logger:          logging.GetGlobalLogger().WithField("component", "rate_limiter"),
		cleanupTicker:   time.NewTicker(5 * time.Minute),
		stopCleanup:     make(chan bool),
	}

	// Start cleanup goroutine
	go rl.cleanupRoutine()

	return rl
}

// Allow checks if a matching run for the given job is allowed
func (rl *RateLimiter) Allow(jobID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	jobID = strings.ToLower(jobID)

	// Check circuit breaker first
	if !rl.isCircuitClosed(jobID) {
		rl.logger.Debug("Request rejected by circuit breaker", map[string]interface{}{
			"job_id": jobID,
		})
		return false
	}

	// Get or create job limiter
	limiter := rl.getJobLimiter(jobID)

	// Check rate limit
	allowed := limiter.limiter.Allow()
	if allowed {
		limiter.mu.Lock()
		limiter.requests++
		limiter.lastSeen = time.Now()
		limiter.mu.Unlock()
	} else {
		rl.logger.Debug("Request rejected by rate limiter", map[string]interface{}{
			"job_id": jobID,
		})
	}

	return allowed
}

// RecordSuccess records a successful matching run for the job
func (rl *RateLimiter) RecordSuccess(jobID string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	jobID = strings.ToLower(jobID)

	// Reset circuit breaker failure count on success
	if cb, exists := rl.circuitBreakers[jobID]; exists {
		cb.mu.Lock()
		if cb.state == CircuitHalfOpen {
			cb.state = CircuitClosed
			cb.failureCount = 0
			rl.logger.Info("Circuit breaker closed after successful run", map[string]interface{}{
				"job_id": jobID,
			})
		}
		cb.mu.Unlock()
	}
}

// RecordFailure records a failed matching run for the job
func (rl *RateLimiter) RecordFailure(jobID string, err error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	jobID = strings.ToLower(jobID)

	// Update job limiter failure count
	if limiter, exists := rl.jobLimiters[jobID]; exists {
		limiter.mu.Lock()
		limiter.failures++
		limiter.mu.Unlock()
	}

	// Update circuit breaker
	cb := rl.getCircuitBreaker(jobID)
	cb.mu.Lock()
	cb.failureCount++
	cb.lastFailTime = time.Now()

	if cb.failureCount >= cb.maxFailures && cb.state == CircuitClosed {
		cb.state = CircuitOpen
		rl.logger.Warn("Circuit breaker opened due to failures", map[string]interface{}{
			"job_id":   jobID,
			"failures": cb.failureCount,
			"error":    err.Error(),
		})
	}
	cb.mu.Unlock()
}

// getJobLimiter gets or creates a rate limiter for a job
func (rl *RateLimiter) getJobLimiter(jobID string) *JobLimiter {
	if limiter, exists := rl.jobLimiters[jobID]; exists {
		return limiter
	}

	// Rate limit: requests per minute converted to requests per second
	rps := rate.Limit(float64(rl.config.Workers.RateLimit) / 60.0)
	burst := 5 // Allow bursts of up to 5 requests

	limiter := &JobLimiter{
		limiter:  rate.NewLimiter(rps, burst),
		lastSeen: time.Now(),
	}

	rl.jobLimiters[jobID] = limiter

	rl.logger.Debug("Created new job rate limiter", map[string]interface{}{
		"job_id": jobID,
		"rate":   rps,
		"burst":  burst,
	})

	return limiter
}

// getCircuitBreaker gets or creates a circuit breaker for a job
func (rl *RateLimiter) getCircuitBreaker(jobID string) *CircuitBreaker {
	if cb, exists := rl.circuitBreakers[jobID]; exists {
		return cb
	}

	cb := &CircuitBreaker{
		maxFailures:  5,                // Open circuit after 5 failures
		resetTimeout: 30 * time.Second, // Try to close after 30 seconds
		state:        CircuitClosed,
	}

	rl.circuitBreakers[jobID] = cb

	return cb
}

// isCircuitClosed checks if the circuit breaker allows runs
func (rl *RateLimiter) isCircuitClosed(jobID string) bool {
	cb := rl.getCircuitBreaker(jobID)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		// Transition to half-open after the reset timeout
		if time.Since(cb.lastFailTime) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			rl.logger.Info("Circuit breaker transitioned to half-open", map[string]interface{}{
				"job_id": jobID,
			})
			return true
		}
		return false
	case CircuitHalfOpen:
		return true
	default:
		return false
	}
}

// GetJobStats returns statistics for a specific job
func (rl *RateLimiter) GetJobStats(jobID string) map[string]interface{} {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	jobID = strings.ToLower(jobID)
	stats := make(map[string]interface{})

	// Rate limiter stats
	if limiter, exists := rl.jobLimiters[jobID]; exists {
		limiter.mu.RLock()
		stats["requests"] = limiter.requests
		stats["failures"] = limiter.failures
		stats["last_seen"] = limiter.lastSeen
		stats["limit"] = limiter.limiter.Limit()
		stats["burst"] = limiter.limiter.Burst()
		limiter.mu.RUnlock()
	}

	// Circuit breaker stats
	if cb, exists := rl.circuitBreakers[jobID]; exists {
		cb.mu.RLock()
		stats["circuit_state"] = cb.state.String()
		stats["failure_count"] = cb.failureCount
		stats["max_failures"] = cb.maxFailures
		stats["last_fail_time"] = cb.lastFailTime
		cb.mu.RUnlock()
	}

	return stats
}

// GetAllStats returns statistics for all jobs seen by the limiter
func (rl *RateLimiter) GetAllStats() map[string]map[string]interface{} {
	rl.mu.RLock()
	jobs := make(map[string]bool)
	for jobID := range rl.jobLimiters {
		jobs[jobID] = true
	}
	for jobID := range rl.circuitBreakers {
		jobs[jobID] = true
	}
	rl.mu.RUnlock()

	allStats := make(map[string]map[string]interface{})
	for jobID := range jobs {
		allStats[jobID] = rl.GetJobStats(jobID)
	}

	return allStats
}

// cleanupRoutine periodically cleans up old unused limiters
func (rl *RateLimiter) cleanupRoutine() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			rl.cleanupTicker.Stop()
			return
		}
	}
}

// cleanup removes old unused limiters and circuit breakers
func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	removedCount := 0

	// Clean up job limiters
	for jobID, limiter := range rl.jobLimiters {
		limiter.mu.RLock()
		lastSeen := limiter.lastSeen
		limiter.mu.RUnlock()

		if lastSeen.Before(cutoff) {
			delete(rl.jobLimiters, jobID)
			removedCount++
		}
	}

	// Clean up circuit breakers that haven't seen failures recently
	for jobID, cb := range rl.circuitBreakers {
		cb.mu.RLock()
		lastFailTime := cb.lastFailTime
		state := cb.state
		cb.mu.RUnlock()

		if state == CircuitClosed && lastFailTime.Before(cutoff) {
			delete(rl.circuitBreakers, jobID)
		}
	}

	if removedCount > 0 {
		rl.logger.Info("Cleaned up unused rate limiters", map[string]interface{}{
			"removed_count": removedCount,
		})
	}
}

// Stop stops the rate limiter and cleanup routine
func (rl *RateLimiter) Stop() {
	rl.stopCleanup <- true
}

// String returns string representation of CircuitState
func (cs CircuitState) String() string {
	switch cs {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
