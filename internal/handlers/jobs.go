package handlers

import (
	"errors"
	"log"
	"net/http"

	"reddit-ideas/internal/services"
	"reddit-ideas/internal/worker"

	"github.com/gin-gonic/gin"
)

// JobsHandler triggers the generation and dispatch jobs
type JobsHandler struct {
	workerService *worker.WorkerService
	jobs          map[string]worker.JobFunc
	status        *services.StatusService
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(workerService *worker.WorkerService, jobs map[string]worker.JobFunc, status *services.StatusService) *JobsHandler {
	return &JobsHandler{
		workerService: workerService,
		jobs:          jobs,
		status:        status,
	}
}

// GenerateIdeas handles POST /api/jobs/generate-ideas
func (h *JobsHandler) GenerateIdeas(c *gin.Context) {
	result, ok := h.run(c, worker.JobGenerateIdeas, "Job failed")
	if !ok {
		return
	}

	summary := result.(*services.RunSummary)
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        summary.Message,
		"processedCount": summary.ProcessedCount,
		"errorCount":     summary.ErrorCount,
		"errors":         summary.Errors,
		"duration":       summary.Duration,
	})
}

// SendPersonalized handles POST /api/jobs/send-personalized-ideas
func (h *JobsHandler) SendPersonalized(c *gin.Context) {
	h.dispatch(c, worker.JobPersonalized, "Failed to send personalized ideas")
}

// SendNewsletter handles POST /api/send-newsletter
func (h *JobsHandler) SendNewsletter(c *gin.Context) {
	h.dispatch(c, worker.JobNewsletter, "Failed to send newsletter")
}

func (h *JobsHandler) dispatch(c *gin.Context, name, label string) {
	result, ok := h.run(c, name, label)
	if !ok {
		return
	}

	res := result.(*services.DispatchResult)
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     res.Message,
		"sent":        res.Sent,
		"skipped":     res.Skipped,
		"subscribers": res.Subscribers,
		"errors":      res.Errors,
	})
}

// run executes a job and writes the error response itself when it fails
func (h *JobsHandler) run(c *gin.Context, name, label string) (interface{}, bool) {
	job, exists := h.jobs[name]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Unknown job", "message": name})
		return nil, false
	}

	result, err := h.workerService.Run(c.Request.Context(), name, job)
	if errors.Is(err, worker.ErrJobRunning) {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error":   "Job already running",
			"message": name + " is already in progress",
		})
		return nil, false
	}
	if err != nil {
		log.Printf("[JOB] %s: %v", label, err)
		jobFailed(c, label, err)
		return nil, false
	}

	return result, true
}

// Status handles GET /api/jobs/status
func (h *JobsHandler) Status(c *gin.Context) {
	snapshot, err := h.status.Snapshot(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching job status: %v", err)
		jobFailed(c, "Failed to fetch status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    snapshot,
	})
}
