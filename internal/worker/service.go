package worker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Job names shared by the HTTP triggers and the run-job command
const (
	JobGenerateIdeas = "generate-ideas"
	JobPersonalized  = "send-personalized-ideas"
	JobNewsletter    = "send-newsletter"
)

// ErrJobRunning is returned when a job is triggered while a run of the same
// name is still in progress.
var ErrJobRunning = errors.New("job is already running")

// JobFunc performs one run of a job and returns its summary
type JobFunc func(ctx context.Context) (interface{}, error)

// Loop is a long-lived background task that returns when ctx is cancelled
type Loop func(ctx context.Context)

// JobRun describes the last completed run of a job
type JobRun struct {
	Name       string      `json:"name"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
	Duration   int64       `json:"duration"` // milliseconds
	Error      string      `json:"error,omitempty"`
	Result     interface{} `json:"result,omitempty"`
}

// WorkerService runs background loops and guards job runs
type WorkerService struct {
	loops     []Loop
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	startedAt time.Time
	active    map[string]time.Time
	last      map[string]*JobRun
	mu        sync.RWMutex
}

// NewWorkerService creates a worker service for the given loops
func NewWorkerService(loops ...Loop) *WorkerService {
	return &WorkerService{
		loops:  loops,
		active: make(map[string]time.Time),
		last:   make(map[string]*JobRun),
	}
}

// Start starts all background loops
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil // Already running
	}

	log.Println("Starting background workers...")

	ws.ctx, ws.cancel = context.WithCancel(context.Background())
	for _, loop := range ws.loops {
		ws.wg.Add(1)
		go func(run Loop) {
			defer ws.wg.Done()
			run(ws.ctx)
		}(loop)
	}

	ws.running = true
	ws.startedAt = time.Now()
	log.Println("Background workers started successfully")

	return nil
}

// Stop stops all background loops and waits for them to return
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	if !ws.running {
		ws.mu.Unlock()
		return
	}
	log.Println("Stopping background workers...")
	ws.cancel()
	ws.running = false
	ws.mu.Unlock()

	ws.wg.Wait()
	log.Println("Background workers stopped")
}

// IsRunning returns whether the background loops are running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// Run executes fn under name. At most one run per name is in flight; the
// outcome is kept for GetStatus. A panic in fn releases the name and is
// re-raised.
func (ws *WorkerService) Run(ctx context.Context, name string, fn JobFunc) (result interface{}, err error) {
	ws.mu.Lock()
	if _, busy := ws.active[name]; busy {
		ws.mu.Unlock()
		log.Printf("[JOB] %s already running, rejecting trigger", name)
		return nil, ErrJobRunning
	}
	started := time.Now()
	ws.active[name] = started
	ws.mu.Unlock()

	defer func() {
		rec := recover()
		if rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}

		finished := time.Now()
		run := &JobRun{
			Name:       name,
			StartedAt:  started,
			FinishedAt: finished,
			Duration:   finished.Sub(started).Milliseconds(),
			Result:     result,
		}
		if err != nil {
			run.Error = err.Error()
			log.Printf("[JOB] %s failed after %dms: %v", name, run.Duration, err)
		}

		ws.mu.Lock()
		delete(ws.active, name)
		ws.last[name] = run
		ws.mu.Unlock()

		if rec != nil {
			panic(rec)
		}
	}()

	return fn(ctx)
}

// LastRun returns the most recent completed run of name, if any
func (ws *WorkerService) LastRun(name string) (*JobRun, bool) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	run, ok := ws.last[name]
	return run, ok
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	defer ws.mu.RUnlock()

	active := make([]string, 0, len(ws.active))
	for name := range ws.active {
		active = append(active, name)
	}
	sort.Strings(active)

	last := make(map[string]JobRun, len(ws.last))
	for name, run := range ws.last {
		last[name] = *run
	}

	status := map[string]interface{}{
		"running":     ws.running,
		"active_jobs": active,
		"last_runs":   last,
		"uptime":      "0s",
	}
	if ws.running {
		status["uptime"] = time.Since(ws.startedAt).Round(time.Second).String()
	}

	return status
}
