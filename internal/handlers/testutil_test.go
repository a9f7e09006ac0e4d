package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"

	"reddit-ideas/internal/auth"
	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/models"
	"reddit-ideas/internal/notifier"
	"reddit-ideas/internal/reddit"
	"reddit-ideas/internal/services"
	"reddit-ideas/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPosts = `
posts:
  - id: t3_a
    subreddit: webdev
    title: Deploys keep breaking on Fridays
    url: https://reddit.com/r/webdev/a
    upvotes: 100
    num_comments: 40
    created_at: 2025-01-06T10:00:00Z
  - id: t3_b
    subreddit: personalfinance
    title: Tracking freelance invoices is a nightmare
    url: https://reddit.com/r/personalfinance/b
    upvotes: 1000
    num_comments: 300
    created_at: 2025-01-06T11:00:00Z
`

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db))
	return db
}

// completerFunc adapts a function to llm.Completer
type completerFunc func(ctx context.Context, prompt string) (string, error)

func (f completerFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func validCompletion(ctx context.Context, prompt string) (string, error) {
	return `{"name":"ShipSafe","pitch":"Safer deploys","painPoint":"broken deploys","targetAudience":"web teams",` +
		`"scores":{"painLevel":85,"willingnessToPay":70,"competition":30,"tam":60,"feasibility":80},"topic":"devtools"}`, nil
}

type stubMailer struct {
	mu   sync.Mutex
	sent map[string][]notifier.Message
}

func (m *stubMailer) Send(ctx context.Context, to string, msg notifier.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = map[string][]notifier.Message{}
	}
	m.sent[to] = append(m.sent[to], msg)
	return nil
}

func (m *stubMailer) count(to string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent[to])
}

// stubVerifier accepts a single token
type stubVerifier struct {
	token string
	user  *auth.User
}

func (v stubVerifier) Verify(ctx context.Context, token string) (*auth.User, error) {
	if token != v.token {
		return nil, auth.ErrUnauthorized
	}
	return v.user, nil
}

type stubConfirmer struct {
	err    error
	emails []string
}

func (s *stubConfirmer) ResendConfirmation(ctx context.Context, email string) error {
	s.emails = append(s.emails, email)
	return s.err
}

func (s *stubConfirmer) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("no token")
	}
	return nil
}

type testEnv struct {
	db            *gorm.DB
	router        *gin.Engine
	store         *services.IdeaStore
	mailer        *stubMailer
	confirmer     *stubConfirmer
	workerService *worker.WorkerService
}

func newTestEnv(t *testing.T, completer completerFunc) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	source := reddit.NewMockSourceFromYAML([]byte(testPosts))
	builder, err := digest.New("https://ideas.example.com")
	require.NoError(t, err)

	env := &testEnv{
		db:            db,
		router:        gin.New(),
		store:         services.NewIdeaStore(db),
		mailer:        &stubMailer{},
		confirmer:     &stubConfirmer{},
		workerService: worker.NewWorkerService(),
	}

	generator := services.NewGenerator(env.store, source, completer, nil)
	dispatcher := services.NewDispatcher(db, env.store, builder, env.mailer)
	status := services.NewStatusService(db, env.store, source)
	verifier := stubVerifier{token: "good-token", user: &auth.User{ID: "user-1", Email: "u@example.com"}}

	jobs := NewJobsHandler(env.workerService, services.JobFuncs(generator, dispatcher), status)
	ideas := NewIdeasHandler(env.store, generator, source)
	subs := NewSubscriptionHandler(
		services.NewSubscriptionService(db, builder, env.mailer),
		services.NewIdeaSubscriptionService(db, env.store),
		env.confirmer,
	)
	health := NewHealthHandler(env.workerService)
	session := NewSessionHandler(env.confirmer, "https://ideas.example.com")

	r := env.router
	r.GET("/health", health.HealthCheck)
	r.GET("/logout", session.Logout)

	api := r.Group("/api")
	api.GET("/worker/status", health.WorkerStatus)
	api.POST("/jobs/generate-ideas", jobs.GenerateIdeas)
	api.POST("/jobs/send-personalized-ideas", jobs.SendPersonalized)
	api.POST("/send-newsletter", jobs.SendNewsletter)
	api.GET("/jobs/status", jobs.Status)
	api.GET("/ideas", ideas.ListIdeas)
	api.POST("/generate-ideas", ideas.PreviewIdeas)
	api.GET("/ingest", ideas.Ingest)
	api.POST("/subscribe-email", subs.SubscribeEmail)
	api.GET("/unsubscribe", subs.Unsubscribe)
	api.POST("/unsubscribe", subs.Unsubscribe)
	api.POST("/resend-confirmation", subs.ResendConfirmation)

	user := api.Group("/subscribe", auth.RequireUser(verifier))
	user.GET("", subs.ListIdeaSubscriptions)
	user.POST("", subs.SubscribeIdea)
	user.DELETE("", subs.UnsubscribeIdea)

	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), fmt.Sprintf("body: %s", w.Body.String()))
	}
	return w, out
}
