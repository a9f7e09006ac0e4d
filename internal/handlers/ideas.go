package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/reddit"
	"reddit-ideas/internal/services"

	"github.com/gin-gonic/gin"
)

const ingestNameLength = 48

// IdeasHandler serves the idea feed and its previews
type IdeasHandler struct {
	store     *services.IdeaStore
	generator *services.Generator
	source    reddit.Source
}

// NewIdeasHandler creates a new ideas handler
func NewIdeasHandler(store *services.IdeaStore, generator *services.Generator, source reddit.Source) *IdeasHandler {
	return &IdeasHandler{
		store:     store,
		generator: generator,
		source:    source,
	}
}

// ListIdeas handles GET /api/ideas
func (h *IdeasHandler) ListIdeas(c *gin.Context) {
	ideas, err := h.store.ListIdeas(c.Request.Context(), nil)
	if err != nil {
		log.Printf("Error fetching ideas: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ideas"})
		return
	}

	items := make([]models.FeedIdea, 0, len(ideas))
	for i := range ideas {
		items = append(items, ideas[i].Feed())
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas":     items,
		"count":     len(items),
		"fetchedAt": time.Now().UTC(),
	})
}

// PreviewIdeas handles POST /api/generate-ideas; nothing is stored
func (h *IdeasHandler) PreviewIdeas(c *gin.Context) {
	ideas, err := h.generator.Preview(c.Request.Context())
	if err != nil {
		log.Printf("Error in generate-ideas: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ideas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ideas":       ideas,
		"count":       len(ideas),
		"generatedAt": time.Now().UTC(),
	})
}

// Ingest handles GET /api/ingest, deriving placeholder ideas straight from posts
func (h *IdeasHandler) Ingest(c *gin.Context) {
	posts, err := h.source.Posts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}

	ideas := make([]models.FeedIdea, 0, len(posts))
	for i, p := range posts {
		ideas = append(ideas, models.FeedIdea{
			ID:        fmt.Sprintf("mock-%d", i+1),
			Name:      truncateRunes(p.Title, ingestNameLength),
			Pitch:     fmt.Sprintf("Inspired by r/%s: %s", p.Subreddit, p.Title),
			PainPoint: p.Title,
			Sources:   []models.SourceLink{{Label: "r/" + p.Subreddit, URL: p.URL}},
			Score:     engagementScore(p),
			Topic:     reddit.TopicForSubreddit(p.Subreddit),
			IsNew:     true,
		})
	}

	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

// engagementScore is round(0.15*upvotes + 0.5*comments) capped at 100
func engagementScore(p reddit.Post) int {
	score := (p.Upvotes*15 + p.NumComments*50 + 50) / 100
	if score > 100 {
		return 100
	}
	return score
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
