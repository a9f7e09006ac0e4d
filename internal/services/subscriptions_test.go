package services

import (
	"context"
	"testing"
	"time"

	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestSubscriptionService(t *testing.T, db *gorm.DB, mailer Mailer) *SubscriptionService {
	builder, err := digest.New("https://ideas.example.com")
	require.NoError(t, err)
	return NewSubscriptionService(db, builder, mailer)
}

func TestSubscribeCreates(t *testing.T) {
	db := setupTestDB(t)
	mailer := newRecordingMailer()
	svc := newTestSubscriptionService(t, db, mailer)

	result, err := svc.Subscribe(context.Background(), SubscribeRequest{Email: "reader@example.com", Topics: []models.Topic{models.TopicHealth}})
	require.NoError(t, err)

	assert.False(t, result.Reactivated)
	sub := result.Subscription
	assert.True(t, sub.IsActive)
	assert.Equal(t, models.FrequencyWeekly, sub.Frequency)
	assert.NotEmpty(t, sub.UnsubscribeToken)

	require.Len(t, mailer.sent["reader@example.com"], 1)
	assert.Equal(t, "Welcome to Reddit Ideas! 🚀", mailer.sent["reader@example.com"][0].Subject)
	assert.Contains(t, mailer.sent["reader@example.com"][0].HTML, sub.UnsubscribeToken)
}

func TestSubscribeRejectsActiveDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubscriptionService(t, db, newRecordingMailer())
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, SubscribeRequest{Email: "reader@example.com"})
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	// addresses are compared as-is
	_, err = svc.Subscribe(ctx, SubscribeRequest{Email: "Reader@example.com"})
	assert.NoError(t, err)
}

func TestSubscribeReactivates(t *testing.T) {
	db := setupTestDB(t)
	mailer := newRecordingMailer()
	svc := newTestSubscriptionService(t, db, mailer)
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, SubscribeRequest{Email: "reader@example.com", Topics: []models.Topic{models.TopicHealth}})
	require.NoError(t, err)
	token := first.Subscription.UnsubscribeToken

	_, err = svc.Unsubscribe(ctx, token)
	require.NoError(t, err)

	again, err := svc.Subscribe(ctx, SubscribeRequest{
		Email:     "reader@example.com",
		Topics:    []models.Topic{models.TopicFinance, models.TopicDevtools},
		Frequency: models.FrequencyDaily,
	})
	require.NoError(t, err)
	assert.True(t, again.Reactivated)

	var rows []models.EmailSubscription
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsActive)
	assert.Equal(t, []models.Topic{models.TopicFinance, models.TopicDevtools}, []models.Topic(rows[0].Topics))
	assert.Equal(t, models.FrequencyDaily, rows[0].Frequency)
	assert.Equal(t, token, rows[0].UnsubscribeToken)
	assert.Nil(t, rows[0].UnsubscribedAt)

	require.Len(t, mailer.sent["reader@example.com"], 2)
	assert.Equal(t, "Welcome back to Reddit Ideas! 🎉", mailer.sent["reader@example.com"][1].Subject)
}

func TestSubscribeSurvivesWelcomeFailure(t *testing.T) {
	db := setupTestDB(t)
	mailer := newRecordingMailer("reader@example.com")
	svc := newTestSubscriptionService(t, db, mailer)

	result, err := svc.Subscribe(context.Background(), SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.True(t, result.Subscription.IsActive)
	assert.Equal(t, []string{"reader@example.com"}, mailer.failed)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubscriptionService(t, db, newRecordingMailer())
	ctx := context.Background()
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return stamp }

	created, err := svc.Subscribe(ctx, SubscribeRequest{Email: "reader@example.com"})
	require.NoError(t, err)
	token := created.Subscription.UnsubscribeToken

	first, err := svc.Unsubscribe(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", first.Email)
	assert.False(t, first.AlreadyUnsubscribed)

	second, err := svc.Unsubscribe(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", second.Email)
	assert.True(t, second.AlreadyUnsubscribed)

	var row models.EmailSubscription
	require.NoError(t, db.First(&row, "email = ?", "reader@example.com").Error)
	assert.False(t, row.IsActive)
	require.NotNil(t, row.UnsubscribedAt)
	assert.True(t, stamp.Equal(*row.UnsubscribedAt))
}

func TestUnsubscribeUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestSubscriptionService(t, db, newRecordingMailer())

	_, err := svc.Unsubscribe(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIdeaSubscriptions(t *testing.T) {
	db := setupTestDB(t)
	store := NewIdeaStore(db)
	svc := NewIdeaSubscriptionService(db, store)
	ctx := context.Background()

	idea := &models.Idea{Name: "InvoiceNudge", Topic: models.TopicFinance}
	require.NoError(t, db.Create(idea).Error)

	sub, err := svc.Subscribe(ctx, "user-1", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub.UserID)
	assert.Equal(t, idea.ID, sub.IdeaID)

	again, err := svc.Subscribe(ctx, "user-1", idea.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, again.ID)

	_, err = svc.Subscribe(ctx, "user-1", uuid.New())
	assert.ErrorIs(t, err, ErrIdeaNotFound)

	subs, err := svc.ListForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	require.NoError(t, svc.Unsubscribe(ctx, "user-1", idea.ID))
	require.NoError(t, svc.Unsubscribe(ctx, "user-1", idea.ID))

	var count int64
	db.Model(&models.IdeaSubscription{}).Count(&count)
	assert.Equal(t, int64(0), count)
}
