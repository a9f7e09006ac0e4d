package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/models"
	"reddit-ideas/internal/notifier"

	"gorm.io/gorm"
)

// Mailer delivers one rendered email.
type Mailer interface {
	Send(ctx context.Context, to string, msg notifier.Message) error
}

// Policy controls which ideas a dispatch run considers and how many each
// subscriber receives.
type Policy struct {
	Name           string
	Kind           digest.Kind
	Window         time.Duration // zero means every stored idea
	Limit          int           // zero means no cap
	LogTag         string
	NoIdeasMessage string
	SentFormat     string
}

// NewsletterPolicy sends every matching idea from the last seven days.
var NewsletterPolicy = Policy{
	Name:           "newsletter",
	Kind:           digest.KindNewsletter,
	Window:         7 * 24 * time.Hour,
	LogTag:         "[NEWSLETTER]",
	NoIdeasMessage: "No new ideas to send",
	SentFormat:     "Newsletter sent to %d subscribers",
}

// PersonalizedPolicy sends the five best matching ideas of all time.
var PersonalizedPolicy = Policy{
	Name:           "personalized",
	Kind:           digest.KindPersonalized,
	Limit:          5,
	LogTag:         "[PERSONALIZED]",
	NoIdeasMessage: "No ideas found to send",
	SentFormat:     "Personalized ideas sent to %d subscribers",
}

// DispatchResult is the outcome of one dispatch run.
type DispatchResult struct {
	Message     string   `json:"message"`
	Sent        int      `json:"sent"`
	Skipped     int      `json:"skipped"`
	Subscribers int      `json:"subscribers"`
	Errors      []string `json:"errors"`
}

// Dispatcher emails idea digests to active subscribers
type Dispatcher struct {
	db      *gorm.DB
	store   *IdeaStore
	builder *digest.Builder
	mailer  Mailer
	now     func() time.Time
}

// NewDispatcher creates a new dispatcher
func NewDispatcher(db *gorm.DB, store *IdeaStore, builder *digest.Builder, mailer Mailer) *Dispatcher {
	return &Dispatcher{
		db:      db,
		store:   store,
		builder: builder,
		mailer:  mailer,
		now:     time.Now,
	}
}

// SelectIdeas filters ideas, already sorted best first, down to the topics of
// sub and truncates to limit when limit is positive.
func SelectIdeas(ideas []models.Idea, sub *models.EmailSubscription, limit int) []models.Idea {
	var selected []models.Idea
	for _, idea := range ideas {
		if !sub.Matches(idea.Topic) {
			continue
		}
		selected = append(selected, idea)
		if limit > 0 && len(selected) == limit {
			break
		}
	}
	return selected
}

// Dispatch sends one digest per active subscription under policy. Subscribers
// with no matching ideas are skipped. A failed send is recorded and the run
// continues with the next subscriber.
func (d *Dispatcher) Dispatch(ctx context.Context, policy Policy) (*DispatchResult, error) {
	result := &DispatchResult{Errors: []string{}}
	tag := policy.LogTag

	log.Printf("%s Starting %s dispatch...", tag, policy.Name)

	var subscriptions []models.EmailSubscription
	if err := d.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}

	result.Subscribers = len(subscriptions)
	log.Printf("%s Found %d active subscriptions", tag, len(subscriptions))
	if len(subscriptions) == 0 {
		result.Message = "No active subscriptions found"
		return result, nil
	}

	var since *time.Time
	if policy.Window > 0 {
		cutoff := d.now().Add(-policy.Window)
		since = &cutoff
	}

	ideas, err := d.store.ListIdeas(ctx, since)
	if err != nil {
		return nil, err
	}

	log.Printf("%s Found %d candidate ideas", tag, len(ideas))
	if len(ideas) == 0 {
		result.Message = policy.NoIdeasMessage
		return result, nil
	}

	for i := range subscriptions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sub := &subscriptions[i]
		selected := SelectIdeas(ideas, sub, policy.Limit)
		if len(selected) == 0 {
			log.Printf("%s No matching ideas for %s, skipping", tag, sub.Email)
			result.Skipped++
			continue
		}

		if err := d.send(ctx, sub, selected, policy.Kind); err != nil {
			msg := fmt.Sprintf("%s: %v", sub.Email, err)
			log.Printf("%s Failed to send to %s", tag, msg)
			if len(result.Errors) < MaxReportedErrors {
				result.Errors = append(result.Errors, msg)
			}
			continue
		}

		result.Sent++
		log.Printf("%s Successfully sent to %s (%d ideas)", tag, sub.Email, len(selected))
	}

	result.Message = fmt.Sprintf(policy.SentFormat, result.Sent)
	return result, nil
}

func (d *Dispatcher) send(ctx context.Context, sub *models.EmailSubscription, ideas []models.Idea, kind digest.Kind) error {
	msg, err := d.builder.Digest(ideas, sub, kind)
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, sub.Email, msg)
}
