package services

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestDispatcher(t *testing.T, db *gorm.DB, mailer Mailer, now time.Time) *Dispatcher {
	builder, err := digest.New("https://ideas.example.com")
	require.NoError(t, err)
	d := NewDispatcher(db, NewIdeaStore(db), builder, mailer)
	d.now = func() time.Time { return now }
	return d
}

func seedIdea(t *testing.T, db *gorm.DB, name string, topic models.Topic, score int, createdAt time.Time) {
	require.NoError(t, db.Create(&models.Idea{Name: name, Topic: topic, OverallScore: score, CreatedAt: createdAt}).Error)
}

func seedSubscriber(t *testing.T, db *gorm.DB, email string, active bool, topics ...models.Topic) *models.EmailSubscription {
	sub := &models.EmailSubscription{Email: email, Topics: datatypes.JSONSlice[models.Topic](topics), IsActive: active}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func digestNames(t *testing.T, msg string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(msg))
	require.NoError(t, err)
	return doc.Find(".idea-name").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
}

func TestSelectIdeas(t *testing.T) {
	ideas := []models.Idea{
		{Name: "h1", Topic: models.TopicHealth},
		{Name: "f1", Topic: models.TopicFinance},
		{Name: "h2", Topic: models.TopicHealth},
	}

	all := SelectIdeas(ideas, &models.EmailSubscription{}, 0)
	assert.Len(t, all, 3)

	health := SelectIdeas(ideas, &models.EmailSubscription{Topics: []models.Topic{models.TopicHealth}}, 0)
	assert.Equal(t, "h1", health[0].Name)
	assert.Equal(t, "h2", health[1].Name)

	capped := SelectIdeas(ideas, &models.EmailSubscription{}, 2)
	assert.Len(t, capped, 2)

	none := SelectIdeas(ideas, &models.EmailSubscription{Topics: []models.Topic{models.TopicDevtools}}, 5)
	assert.Empty(t, none)

	// topic matching is exact
	upper := SelectIdeas(ideas, &models.EmailSubscription{Topics: []models.Topic{"Health"}}, 0)
	assert.Empty(t, upper)
}

func TestDispatchPersonalized(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for i, score := range []int{50, 90, 60, 80, 70, 40, 95} {
		seedIdea(t, db, "health-"+strconv.Itoa(score), models.TopicHealth, score, now.Add(-time.Duration(i)*time.Hour))
	}
	seedIdea(t, db, "finance-old", models.TopicFinance, 99, now.Add(-30*24*time.Hour))

	seedSubscriber(t, db, "all@example.com", true)
	seedSubscriber(t, db, "health@example.com", true, models.TopicHealth)
	seedSubscriber(t, db, "devtools@example.com", true, models.TopicDevtools)
	seedSubscriber(t, db, "gone@example.com", false)

	mailer := newRecordingMailer()
	result, err := newTestDispatcher(t, db, mailer, now).Dispatch(context.Background(), PersonalizedPolicy)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 3, result.Subscribers)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Personalized ideas sent to 2 subscribers", result.Message)

	require.Len(t, mailer.sent["all@example.com"], 1)
	assert.Equal(t, []string{"finance-old", "health-95", "health-90", "health-80", "health-70"},
		digestNames(t, mailer.sent["all@example.com"][0].HTML))
	assert.Equal(t, "Fresh Ideas: 5 personalized product opportunities", mailer.sent["all@example.com"][0].Subject)

	require.Len(t, mailer.sent["health@example.com"], 1)
	assert.Equal(t, []string{"health-95", "health-90", "health-80", "health-70", "health-60"},
		digestNames(t, mailer.sent["health@example.com"][0].HTML))

	assert.Empty(t, mailer.sent["devtools@example.com"])
	assert.Empty(t, mailer.sent["gone@example.com"])
}

func TestDispatchNewsletterWindow(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	for i := 0; i < 12; i++ {
		seedIdea(t, db, "recent-"+strconv.Itoa(i), models.TopicProductivity, 50+i, now.Add(-time.Duration(i)*time.Hour))
	}
	seedIdea(t, db, "stale", models.TopicProductivity, 99, now.Add(-8*24*time.Hour))
	seedSubscriber(t, db, "reader@example.com", true)

	mailer := newRecordingMailer()
	result, err := newTestDispatcher(t, db, mailer, now).Dispatch(context.Background(), NewsletterPolicy)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Sent)
	require.Len(t, mailer.sent["reader@example.com"], 1)
	names := digestNames(t, mailer.sent["reader@example.com"][0].HTML)
	assert.Len(t, names, 12)
	assert.Equal(t, "recent-11", names[0])
	assert.NotContains(t, names, "stale")
	assert.Equal(t, "Fresh Ideas: 12 new product opportunities", mailer.sent["reader@example.com"][0].Subject)
}

func TestDispatchIsolatesSendFailures(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()

	seedIdea(t, db, "idea", models.TopicOther, 70, now)
	seedSubscriber(t, db, "first@example.com", true)
	seedSubscriber(t, db, "bounce@example.com", true)
	seedSubscriber(t, db, "last@example.com", true)

	mailer := newRecordingMailer("bounce@example.com")
	result, err := newTestDispatcher(t, db, mailer, now).Dispatch(context.Background(), PersonalizedPolicy)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, []string{"bounce@example.com: address rejected"}, result.Errors)
	assert.Len(t, mailer.sent["first@example.com"], 1)
	assert.Len(t, mailer.sent["last@example.com"], 1)
}

func TestDispatchNothingToDo(t *testing.T) {
	db := setupTestDB(t)
	now := time.Now()
	mailer := newRecordingMailer()
	d := newTestDispatcher(t, db, mailer, now)

	result, err := d.Dispatch(context.Background(), NewsletterPolicy)
	require.NoError(t, err)
	assert.Equal(t, "No active subscriptions found", result.Message)
	assert.Equal(t, 0, result.Sent)

	seedSubscriber(t, db, "reader@example.com", true)
	result, err = d.Dispatch(context.Background(), NewsletterPolicy)
	require.NoError(t, err)
	assert.Equal(t, "No new ideas to send", result.Message)

	result, err = d.Dispatch(context.Background(), PersonalizedPolicy)
	require.NoError(t, err)
	assert.Equal(t, "No ideas found to send", result.Message)
	assert.Empty(t, mailer.sent)
}
