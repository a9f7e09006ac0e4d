// Package reddit provides the posts ideas are generated from.
package reddit

import (
	"context"
	"strings"
	"time"

	"reddit-ideas/internal/models"
)

// Post is a Reddit-like discussion thread.
type Post struct {
	ID          string    `json:"id" yaml:"id"`
	Subreddit   string    `json:"subreddit" yaml:"subreddit"`
	Title       string    `json:"title" yaml:"title"`
	URL         string    `json:"url" yaml:"url"`
	Upvotes     int       `json:"upvotes" yaml:"upvotes"`
	NumComments int       `json:"numComments" yaml:"num_comments"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
}

// Source lists candidate posts in a stable order.
type Source interface {
	Posts(ctx context.Context) ([]Post, error)
}

// IDs returns the post ids in order.
func IDs(posts []Post) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

// Marker converts a post into its processed-marker row.
func (p Post) Marker() *models.Post {
	return &models.Post{
		ID:            p.ID,
		Subreddit:     p.Subreddit,
		Title:         p.Title,
		URL:           p.URL,
		Upvotes:       p.Upvotes,
		NumComments:   p.NumComments,
		PostCreatedAt: p.CreatedAt,
		IdeaGenerated: true,
	}
}

// TopicForSubreddit guesses a topic from a subreddit name.
func TopicForSubreddit(sub string) models.Topic {
	s := strings.ToLower(sub)
	switch {
	case strings.Contains(s, "dev"):
		return models.TopicDevtools
	case strings.Contains(s, "teacher"):
		return models.TopicEducation
	case strings.Contains(s, "adhd"), strings.Contains(s, "health"):
		return models.TopicHealth
	case strings.Contains(s, "free"), strings.Contains(s, "finance"):
		return models.TopicFinance
	case strings.Contains(s, "product"):
		return models.TopicProductivity
	default:
		return models.TopicOther
	}
}
