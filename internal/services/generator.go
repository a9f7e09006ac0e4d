package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"reddit-ideas/internal/llm"
	"reddit-ideas/internal/models"
	"reddit-ideas/internal/reddit"
)

// MaxReportedErrors caps the error list returned by job runs.
const MaxReportedErrors = 10

// IdeaPublisher is notified after an idea has been committed.
type IdeaPublisher interface {
	PublishIdea(idea *models.Idea)
}

// RunSummary is the result of one generation run.
type RunSummary struct {
	Message        string   `json:"message"`
	ProcessedCount int      `json:"processedCount"`
	ErrorCount     int      `json:"errorCount"`
	Errors         []string `json:"errors"`
	Duration       int64    `json:"duration"` // milliseconds
}

// Generator turns unprocessed posts into stored ideas
type Generator struct {
	store     *IdeaStore
	source    reddit.Source
	completer llm.Completer
	publisher IdeaPublisher
}

// NewGenerator creates a new generator. publisher may be nil.
func NewGenerator(store *IdeaStore, source reddit.Source, completer llm.Completer, publisher IdeaPublisher) *Generator {
	return &Generator{
		store:     store,
		source:    source,
		completer: completer,
		publisher: publisher,
	}
}

// Run generates one idea per unprocessed post, one post at a time. A failing
// post is recorded and skipped. The returned error is reserved for failures
// that stop the whole run.
func (g *Generator) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	summary := &RunSummary{Errors: []string{}}

	posts, err := g.source.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}
	log.Printf("[JOB] Starting idea generation for %d posts", len(posts))

	processed, err := g.store.ProcessedIDs(ctx, reddit.IDs(posts))
	if err != nil {
		return nil, err
	}

	pending := Unprocessed(posts, processed)
	if len(pending) == 0 {
		log.Println("[JOB] No new posts to process")
		summary.Message = "No new posts to process"
		summary.Duration = time.Since(start).Milliseconds()
		return summary, nil
	}

	log.Printf("[JOB] Processing %d new posts", len(pending))

	for _, post := range pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		idea, err := g.processPost(ctx, post)
		if err != nil {
			summary.ErrorCount++
			msg := fmt.Sprintf("Error processing post %s: %v", post.ID, err)
			log.Printf("[JOB] %s", msg)
			if len(summary.Errors) < MaxReportedErrors {
				summary.Errors = append(summary.Errors, msg)
			}
			continue
		}

		summary.ProcessedCount++
		log.Printf("[JOB] Successfully processed post %s -> idea %s", post.ID, idea.ID)
		if g.publisher != nil {
			g.publisher.PublishIdea(idea)
		}
	}

	summary.Duration = time.Since(start).Milliseconds()
	summary.Message = fmt.Sprintf("Processed %d posts successfully", summary.ProcessedCount)
	log.Printf("[JOB] Completed in %dms. Processed: %d, Errors: %d",
		summary.Duration, summary.ProcessedCount, summary.ErrorCount)

	return summary, nil
}

func (g *Generator) processPost(ctx context.Context, post reddit.Post) (*models.Idea, error) {
	log.Printf("[JOB] Processing post: %s - %s", post.ID, post.Title)

	generated, err := g.generate(ctx, post)
	if err != nil {
		return nil, err
	}

	return g.store.SaveGenerated(ctx, post, generated)
}

func (g *Generator) generate(ctx context.Context, post reddit.Post) (*llm.GeneratedIdea, error) {
	content, err := g.completer.Complete(ctx, llm.FormatPrompt(post))
	if err != nil {
		return nil, err
	}
	return llm.ParseIdea(content)
}

// Preview generates ideas for every post without storing anything, best score first.
func (g *Generator) Preview(ctx context.Context) ([]models.FeedIdea, error) {
	posts, err := g.source.Posts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	ideas := []models.FeedIdea{}
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		generated, err := g.generate(ctx, post)
		if err != nil {
			log.Printf("Error processing post %s: %v", post.ID, err)
			continue
		}

		scores := generated.Scores
		ideas = append(ideas, models.FeedIdea{
			ID:             "llm-" + post.ID,
			Name:           generated.Name,
			Pitch:          generated.Pitch,
			PainPoint:      generated.PainPoint,
			Sources:        []models.SourceLink{{Label: "r/" + post.Subreddit, URL: post.URL}},
			Score:          generated.OverallScore(),
			Topic:          generated.Topic,
			IsNew:          true,
			TargetAudience: generated.TargetAudience,
			DetailedScores: &scores,
		})
	}

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].Score > ideas[j].Score
	})
	return ideas, nil
}
