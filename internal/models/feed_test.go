package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdeaFeed(t *testing.T) {
	id := uuid.New()
	idea := &Idea{
		ID:           id,
		Name:         "InvoiceNudge",
		PainPoint:    "late invoices",
		Topic:        TopicFinance,
		OverallScore: 74,
		IsNew:        true,
		Score:        &IdeaScore{PainLevel: 85, WillingnessToPay: 70, Competition: 30, TAM: 60, Feasibility: 80},
		Sources:      []IdeaSource{{Subreddit: "freelance", PostURL: "https://reddit.com/x"}},
	}

	data, err := json.Marshal(idea.Feed())
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, id.String(), got["id"])
	assert.Equal(t, "late invoices", got["painPoint"])
	assert.Equal(t, float64(74), got["score"])
	assert.Equal(t, true, got["isNew"])
	assert.Equal(t, []interface{}{map[string]interface{}{"label": "r/freelance", "url": "https://reddit.com/x"}}, got["sources"])
	assert.Equal(t, float64(60), got["detailedScores"].(map[string]interface{})["tam"])
}

func TestIdeaFeedWithoutScore(t *testing.T) {
	item := (&Idea{Name: "bare"}).Feed()
	assert.Nil(t, item.DetailedScores)
	assert.NotNil(t, item.Sources)
	assert.Empty(t, item.Sources)
}

func TestSubscriptionMatches(t *testing.T) {
	all := &EmailSubscription{}
	assert.True(t, all.Matches(TopicHealth))

	health := &EmailSubscription{Topics: []Topic{TopicHealth}}
	assert.True(t, health.Matches(TopicHealth))
	assert.False(t, health.Matches(TopicFinance))
}

func TestTopicValid(t *testing.T) {
	for _, topic := range Topics {
		assert.True(t, topic.Valid())
	}
	assert.False(t, Topic("Health").Valid())
	assert.False(t, Topic("gaming").Valid())
}
