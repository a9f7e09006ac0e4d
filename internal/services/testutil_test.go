package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/notifier"
	"reddit-ideas/internal/reddit"

	"github.com/stretchr/testify/mock"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// every connection to :memory: is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// staticSource serves a fixed post list
type staticSource []reddit.Post

func (s staticSource) Posts(ctx context.Context) ([]reddit.Post, error) {
	out := make([]reddit.Post, len(s))
	copy(out, s)
	return out, nil
}

// MockCompleter is a mock implementation of llm.Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(prompt)
	return args.String(0), args.Error(1)
}

// forTitle matches prompts generated for the post with the given title
func forTitle(title string) interface{} {
	return mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "Title: "+title+"\n")
	})
}

// recordingMailer captures sent mail and fails for listed addresses
type recordingMailer struct {
	mu     sync.Mutex
	fail   map[string]bool
	sent   map[string][]notifier.Message
	failed []string
}

func newRecordingMailer(failing ...string) *recordingMailer {
	m := &recordingMailer{fail: map[string]bool{}, sent: map[string][]notifier.Message{}}
	for _, addr := range failing {
		m.fail[addr] = true
	}
	return m
}

func (m *recordingMailer) Send(ctx context.Context, to string, msg notifier.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail[to] {
		m.failed = append(m.failed, to)
		return errors.New("address rejected")
	}
	m.sent[to] = append(m.sent[to], msg)
	return nil
}

func ideaJSON(name, topic string, pain int) string {
	return fmt.Sprintf(`{"name":%q,"pitch":"pitch","painPoint":"pain","targetAudience":"people",`+
		`"scores":{"painLevel":%d,"willingnessToPay":70,"competition":30,"tam":60,"feasibility":80},"topic":%q}`,
		name, pain, topic)
}
