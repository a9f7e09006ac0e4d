package services

import (
	"context"
	"fmt"
	"time"

	"reddit-ideas/internal/llm"
	"reddit-ideas/internal/models"
	"reddit-ideas/internal/reddit"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdeaStore reads and writes ideas with their scores, sources and the
// processed markers of the posts they came from.
type IdeaStore struct {
	db *gorm.DB
}

// NewIdeaStore creates a new idea store
func NewIdeaStore(db *gorm.DB) *IdeaStore {
	return &IdeaStore{db: db}
}

// ProcessedIDs returns which of ids already have a processed marker.
func (s *IdeaStore) ProcessedIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	processed := make(map[string]bool)
	if len(ids) == 0 {
		return processed, nil
	}

	query, args, err := sq.Select("id").
		From(models.Post{}.TableName()).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build processed query: %w", err)
	}

	var rows []struct{ ID string }
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load processed posts: %w", err)
	}

	for _, r := range rows {
		processed[r.ID] = true
	}
	return processed, nil
}

// Unprocessed returns the posts not in processed, preserving order.
func Unprocessed(posts []reddit.Post, processed map[string]bool) []reddit.Post {
	var out []reddit.Post
	for _, p := range posts {
		if !processed[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

// SaveGenerated writes the idea, its score, its source and the post's
// processed marker in one transaction. If the post was already marked by a
// concurrent run the whole write is rolled back.
func (s *IdeaStore) SaveGenerated(ctx context.Context, post reddit.Post, generated *llm.GeneratedIdea) (*models.Idea, error) {
	idea := &models.Idea{
		Name:           generated.Name,
		Pitch:          generated.Pitch,
		PainPoint:      generated.PainPoint,
		TargetAudience: generated.TargetAudience,
		Topic:          generated.Topic,
		OverallScore:   generated.OverallScore(),
		IsNew:          true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(idea).Error; err != nil {
			return fmt.Errorf("failed to insert idea: %w", err)
		}

		score := &models.IdeaScore{
			IdeaID:           idea.ID,
			PainLevel:        generated.Scores.PainLevel,
			WillingnessToPay: generated.Scores.WillingnessToPay,
			Competition:      generated.Scores.Competition,
			TAM:              generated.Scores.TAM,
			Feasibility:      generated.Scores.Feasibility,
		}
		if err := tx.Create(score).Error; err != nil {
			return fmt.Errorf("failed to insert scores: %w", err)
		}

		source := models.IdeaSource{
			IdeaID:      idea.ID,
			Subreddit:   post.Subreddit,
			PostURL:     post.URL,
			PostTitle:   post.Title,
			Upvotes:     post.Upvotes,
			NumComments: post.NumComments,
		}
		if err := tx.Create(&source).Error; err != nil {
			return fmt.Errorf("failed to insert source: %w", err)
		}

		if err := tx.Create(post.Marker()).Error; err != nil {
			return fmt.Errorf("failed to mark post processed: %w", err)
		}

		idea.Score = score
		idea.Sources = []models.IdeaSource{source}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return idea, nil
}

// ListIdeas returns ideas with their score and sources, best first. A non-nil
// since restricts the result to ideas created at or after it.
func (s *IdeaStore) ListIdeas(ctx context.Context, since *time.Time) ([]models.Idea, error) {
	query := s.db.WithContext(ctx).
		Preload("Score").
		Preload("Sources").
		Order("overall_score DESC").
		Order("created_at DESC")
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var ideas []models.Idea
	if err := query.Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch ideas: %w", err)
	}
	return ideas, nil
}

// Exists reports whether an idea with id is stored.
func (s *IdeaStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Idea{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to look up idea: %w", err)
	}
	return count > 0, nil
}
