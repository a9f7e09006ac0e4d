package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"reddit-ideas/internal/models"
	"reddit-ideas/internal/reddit"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// IdeaStats summarises the idea table.
type IdeaStats struct {
	Total        int64            `json:"total"`
	New          int64            `json:"new"`
	AverageScore int              `json:"averageScore"`
	Recent24h    int64            `json:"recent24h"`
	ByTopic      map[string]int64 `json:"byTopic"`
}

// PostStats compares the candidate posts with the processed markers.
type PostStats struct {
	Total       int64            `json:"total"`
	Processed   int64            `json:"processed"`
	Pending     int64            `json:"pending"`
	BySubreddit map[string]int64 `json:"bySubreddit"`
}

// SubscriptionStats counts email subscribers.
type SubscriptionStats struct {
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// StatusSnapshot is the admin view of the pipeline.
type StatusSnapshot struct {
	Ideas         IdeaStats         `json:"ideas"`
	Posts         PostStats         `json:"posts"`
	Subscriptions SubscriptionStats `json:"subscriptions"`
	LastUpdated   time.Time         `json:"lastUpdated"`
}

// StatusService aggregates counts for the admin view
type StatusService struct {
	db     *gorm.DB
	store  *IdeaStore
	source reddit.Source
	now    func() time.Time
}

// NewStatusService creates a new status service
func NewStatusService(db *gorm.DB, store *IdeaStore, source reddit.Source) *StatusService {
	return &StatusService{
		db:     db,
		store:  store,
		source: source,
		now:    time.Now,
	}
}

type groupCount struct {
	Label string
	Count int64
}

// Snapshot computes the current counts.
func (s *StatusService) Snapshot(ctx context.Context) (*StatusSnapshot, error) {
	now := s.now()
	snapshot := &StatusSnapshot{LastUpdated: now}

	if err := s.ideaStats(ctx, now, &snapshot.Ideas); err != nil {
		return nil, err
	}
	if err := s.postStats(ctx, &snapshot.Posts); err != nil {
		return nil, err
	}
	if err := s.subscriptionStats(ctx, &snapshot.Subscriptions); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *StatusService) ideaStats(ctx context.Context, now time.Time, stats *IdeaStats) error {
	var totals struct {
		Total        int64
		NewCount     int64
		AverageScore float64
	}
	err := s.raw(ctx, sq.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN is_new THEN 1 ELSE 0 END), 0) AS new_count",
		"COALESCE(AVG(overall_score), 0) AS average_score",
	).From(models.Idea{}.TableName()), &totals)
	if err != nil {
		return fmt.Errorf("failed to fetch idea totals: %w", err)
	}

	var recent struct{ Count int64 }
	err = s.raw(ctx, sq.Select("COUNT(*) AS count").
		From(models.Idea{}.TableName()).
		Where(sq.Gt{"created_at": now.Add(-24 * time.Hour)}), &recent)
	if err != nil {
		return fmt.Errorf("failed to fetch recent ideas: %w", err)
	}

	byTopic, err := s.groupCounts(ctx, sq.Select("topic AS label", "COUNT(*) AS count").
		From(models.Idea{}.TableName()).
		GroupBy("topic"))
	if err != nil {
		return fmt.Errorf("failed to group ideas by topic: %w", err)
	}

	stats.Total = totals.Total
	stats.New = totals.NewCount
	stats.AverageScore = int(math.Round(totals.AverageScore))
	stats.Recent24h = recent.Count
	stats.ByTopic = byTopic
	return nil
}

func (s *StatusService) postStats(ctx context.Context, stats *PostStats) error {
	var processed struct{ Count int64 }
	err := s.raw(ctx, sq.Select("COUNT(*) AS count").
		From(models.Post{}.TableName()).
		Where(sq.Eq{"idea_generated": true}), &processed)
	if err != nil {
		return fmt.Errorf("failed to count processed posts: %w", err)
	}

	bySubreddit, err := s.groupCounts(ctx, sq.Select("subreddit AS label", "COUNT(*) AS count").
		From(models.Post{}.TableName()).
		GroupBy("subreddit"))
	if err != nil {
		return fmt.Errorf("failed to group posts by subreddit: %w", err)
	}

	var pending int64
	if s.source != nil {
		posts, err := s.source.Posts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load posts: %w", err)
		}
		done, err := s.store.ProcessedIDs(ctx, reddit.IDs(posts))
		if err != nil {
			return err
		}
		pending = int64(len(Unprocessed(posts, done)))
	}

	stats.Processed = processed.Count
	stats.Pending = pending
	stats.Total = processed.Count + pending
	stats.BySubreddit = bySubreddit
	return nil
}

func (s *StatusService) subscriptionStats(ctx context.Context, stats *SubscriptionStats) error {
	counts, err := s.groupCounts(ctx, sq.Select(
		"CASE WHEN is_active THEN 'active' ELSE 'inactive' END AS label",
		"COUNT(*) AS count",
	).From(models.EmailSubscription{}.TableName()).GroupBy("is_active"))
	if err != nil {
		return fmt.Errorf("failed to count subscriptions: %w", err)
	}

	stats.Active = counts["active"]
	stats.Inactive = counts["inactive"]
	return nil
}

func (s *StatusService) groupCounts(ctx context.Context, query sq.SelectBuilder) (map[string]int64, error) {
	var rows []groupCount
	if err := s.raw(ctx, query, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Label] += r.Count
	}
	return counts, nil
}

func (s *StatusService) raw(ctx context.Context, query sq.SelectBuilder, dest interface{}) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Raw(sql, args...).Scan(dest).Error
}
