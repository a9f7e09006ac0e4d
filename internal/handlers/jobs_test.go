package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"reddit-ideas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIdeasJob(t *testing.T) {
	env := newTestEnv(t, validCompletion)

	w, body := env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Processed 2 posts successfully", body["message"])
	assert.Equal(t, float64(2), body["processedCount"])
	assert.Equal(t, float64(0), body["errorCount"])
	assert.Equal(t, []interface{}{}, body["errors"])
	assert.Contains(t, body, "duration")

	// Nothing new on the second run
	w, body = env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No new posts to process", body["message"])
	assert.Equal(t, float64(0), body["processedCount"])

	var count int64
	env.db.Model(&models.Idea{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGenerateIdeasJobReportsItemErrors(t *testing.T) {
	env := newTestEnv(t, func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("rate limited")
	})

	w, body := env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["processedCount"])
	assert.Equal(t, float64(2), body["errorCount"])

	errs := body["errors"].([]interface{})
	require.Len(t, errs, 2)
	assert.Equal(t, "Error processing post t3_a: rate limited", errs[0])
}

func TestGenerateIdeasJobRejectsOverlappingRun(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	env := newTestEnv(t, func(ctx context.Context, prompt string) (string, error) {
		once.Do(func() { close(entered) })
		<-release
		return validCompletion(ctx, prompt)
	})

	done := make(chan int, 1)
	go func() {
		w, _ := env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
		done <- w.Code
	}()
	<-entered

	w, body := env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Job already running", body["error"])

	close(release)
	assert.Equal(t, http.StatusOK, <-done)
}

func TestSendNewsletterWithoutSubscribers(t *testing.T) {
	env := newTestEnv(t, validCompletion)

	w, body := env.do(t, http.MethodPost, "/api/send-newsletter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "No active subscriptions found", body["message"])
	assert.Equal(t, float64(0), body["sent"])
}

func TestSendPersonalizedIdeas(t *testing.T) {
	env := newTestEnv(t, validCompletion)

	require.NoError(t, env.db.Create(&models.EmailSubscription{Email: "all@example.com", IsActive: true}).Error)
	require.NoError(t, env.db.Create(&models.EmailSubscription{
		Email:    "health@example.com",
		Topics:   []models.Topic{models.TopicHealth},
		IsActive: true,
	}).Error)

	w, body := env.do(t, http.MethodPost, "/api/jobs/send-personalized-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "No ideas found to send", body["message"])

	w, _ = env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodPost, "/api/jobs/send-personalized-ideas", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Personalized ideas sent to 1 subscribers", body["message"])
	assert.Equal(t, float64(1), body["sent"])
	assert.Equal(t, float64(1), body["skipped"])
	assert.Equal(t, 1, env.mailer.count("all@example.com"))
	assert.Equal(t, 0, env.mailer.count("health@example.com"))

	w, body = env.do(t, http.MethodPost, "/api/send-newsletter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Newsletter sent to 1 subscribers", body["message"])
}

func TestJobsStatus(t *testing.T) {
	env := newTestEnv(t, validCompletion)
	env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)

	w, body := env.do(t, http.MethodGet, "/api/jobs/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	ideas := data["ideas"].(map[string]interface{})
	posts := data["posts"].(map[string]interface{})
	assert.Equal(t, float64(2), ideas["total"])
	assert.Equal(t, float64(74), ideas["averageScore"])
	assert.Equal(t, float64(2), posts["total"])
	assert.Equal(t, float64(2), posts["processed"])
	assert.Equal(t, float64(0), posts["pending"])
	assert.Contains(t, data, "lastUpdated")
}

func TestWorkerStatusIncludesLastRun(t *testing.T) {
	env := newTestEnv(t, validCompletion)
	env.do(t, http.MethodPost, "/api/jobs/generate-ideas", nil)

	w, body := env.do(t, http.MethodGet, "/api/worker/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	status := body["worker_status"].(map[string]interface{})
	assert.Equal(t, false, status["running"])
	assert.Contains(t, status["last_runs"], "generate-ideas")
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, validCompletion)

	w, body := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
}
