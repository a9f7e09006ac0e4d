package handlers

import (
	"net/http"

	"reddit-ideas/internal/worker"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports process liveness and worker status
type HealthHandler struct {
	workerService *worker.WorkerService
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(workerService *worker.WorkerService) *HealthHandler {
	return &HealthHandler{workerService: workerService}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "reddit-ideas",
	})
}

// WorkerStatus handles GET /api/worker/status
func (h *HealthHandler) WorkerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"worker_status": h.workerService.GetStatus(),
	})
}
