package workers

import (
	"sync"

	"crewmatch/internal/logging"
)

// Dispatcher manages task distribution to workers
type Dispatcher struct {
	taskQueue   chan MatchTask
	workers     []*Worker
	workerQueue chan chan MatchTask
	quit        chan bool
	logger      logging.Logger
	mu          sync.RWMutex
	running     bool
}

// NewDispatcher creates a new task dispatcher
func NewDispatcher(taskQueue chan MatchTask, workers []*Worker) *Dispatcher {
	workerQueue := make(chan chan MatchTask, len(workers))

	return &Dispatcher{
		taskQueue:   taskQueue,
		workers:     workers,
		workerQueue: workerQueue,
		quit:        make(chan bool),
		logger:      logging.GetGlobalLogger().WithField("component", "dispatcher"),
	}
}

// Start starts the dispatcher
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return
	}

	d.logger.Info("Starting task dispatcher")

	// Start task dispatching
	go d.dispatch()

	d.running = true
	d.logger.Info("Task dispatcher started", map[string]interface{}{
		"workers": len(d.workers),
	})
}

// Stop stops the dispatcher
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	d.logger.Info("Stopping task dispatcher")

	// Send quit signal
	d.quit <- true

	d.running = false
	d.logger.Info("Task dispatcher stopped")
}

// dispatch handles the main task dispatching logic
func (d *Dispatcher) dispatch() {
	workerIndex := 0

	for {
		select {
		case task := <-d.taskQueue:
			// Simple round-robin assignment
			// This ensures each task is assigned to exactly one worker
		assignLoop:
			for {
				worker := d.workers[workerIndex]
				workerIndex = (workerIndex + 1) % len(d.workers)
				select {
				case worker.TaskChan <- task:
					break assignLoop
				default:
					// Worker is busy, try next one
					continue
				}
			}

		case <-d.quit:
			return
		}
	}
}

// IsRunning returns true if dispatcher is running
func (d *Dispatcher) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}
