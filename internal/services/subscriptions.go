package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"reddit-ideas/internal/digest"
	"reddit-ideas/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	// ErrAlreadySubscribed is returned when an active subscription exists for the address.
	ErrAlreadySubscribed = errors.New("email already subscribed")
	// ErrInvalidToken is returned when no subscription carries the unsubscribe token.
	ErrInvalidToken = errors.New("invalid unsubscribe token")
	// ErrIdeaNotFound is returned when subscribing to an idea that does not exist.
	ErrIdeaNotFound = errors.New("idea not found")
)

// SubscribeRequest holds the preferences of a new or returning subscriber.
type SubscribeRequest struct {
	Email     string
	Topics    []models.Topic
	Frequency models.Frequency
}

// SubscribeResult describes the subscription after Subscribe.
type SubscribeResult struct {
	Subscription *models.EmailSubscription
	Reactivated  bool
}

// UnsubscribeResult describes the subscription after Unsubscribe.
type UnsubscribeResult struct {
	Email               string
	AlreadyUnsubscribed bool
}

// SubscriptionService manages email subscriptions
type SubscriptionService struct {
	db      *gorm.DB
	builder *digest.Builder
	mailer  Mailer
	now     func() time.Time
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(db *gorm.DB, builder *digest.Builder, mailer Mailer) *SubscriptionService {
	return &SubscriptionService{
		db:      db,
		builder: builder,
		mailer:  mailer,
		now:     time.Now,
	}
}

// Subscribe creates a subscription, or reactivates an inactive one for the
// same address with the new preferences. A welcome email is attempted either
// way; a failed send does not fail the call.
func (s *SubscriptionService) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	if req.Frequency == "" {
		req.Frequency = models.FrequencyWeekly
	}
	topics := datatypes.JSONSlice[models.Topic](req.Topics)
	if topics == nil {
		topics = datatypes.JSONSlice[models.Topic]{}
	}

	var existing models.EmailSubscription
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error

	var result *SubscribeResult
	switch {
	case err == nil:
		if existing.IsActive {
			return nil, ErrAlreadySubscribed
		}

		existing.Topics = topics
		existing.Frequency = req.Frequency
		existing.IsActive = true
		existing.UnsubscribedAt = nil
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, fmt.Errorf("failed to reactivate subscription: %w", err)
		}
		log.Printf("[SUBSCRIBE] Reactivated subscription for %s", req.Email)
		result = &SubscribeResult{Subscription: &existing, Reactivated: true}

	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := &models.EmailSubscription{
			Email:     req.Email,
			Topics:    topics,
			Frequency: req.Frequency,
			IsActive:  true,
		}
		if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
			return nil, fmt.Errorf("failed to create subscription: %w", err)
		}
		log.Printf("[SUBSCRIBE] Created subscription for %s", req.Email)
		result = &SubscribeResult{Subscription: sub}

	default:
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}

	s.sendWelcome(ctx, result.Subscription, result.Reactivated)
	return result, nil
}

func (s *SubscriptionService) sendWelcome(ctx context.Context, sub *models.EmailSubscription, returning bool) {
	msg, err := s.builder.Welcome(sub, returning)
	if err != nil {
		log.Printf("[SUBSCRIBE] Failed to render welcome email for %s: %v", sub.Email, err)
		return
	}
	if err := s.mailer.Send(ctx, sub.Email, msg); err != nil {
		log.Printf("[SUBSCRIBE] Failed to send welcome email to %s: %v", sub.Email, err)
	}
}

// Unsubscribe deactivates the subscription holding token. Repeating the call
// succeeds and reports the subscription as already unsubscribed.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, token string) (*UnsubscribeResult, error) {
	var sub models.EmailSubscription
	err := s.db.WithContext(ctx).Where("unsubscribe_token = ?", token).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up subscription: %w", err)
	}

	if !sub.IsActive {
		return &UnsubscribeResult{Email: sub.Email, AlreadyUnsubscribed: true}, nil
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&sub).Updates(map[string]interface{}{
		"is_active":       false,
		"unsubscribed_at": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to unsubscribe: %w", err)
	}

	log.Printf("[SUBSCRIBE] Unsubscribed %s", sub.Email)
	return &UnsubscribeResult{Email: sub.Email}, nil
}

// IdeaSubscriptionService links authenticated users to ideas they follow
type IdeaSubscriptionService struct {
	db    *gorm.DB
	store *IdeaStore
}

// NewIdeaSubscriptionService creates a new idea subscription service
func NewIdeaSubscriptionService(db *gorm.DB, store *IdeaStore) *IdeaSubscriptionService {
	return &IdeaSubscriptionService{db: db, store: store}
}

// Subscribe follows ideaID for userID. Following twice returns the existing link.
func (s *IdeaSubscriptionService) Subscribe(ctx context.Context, userID string, ideaID uuid.UUID) (*models.IdeaSubscription, error) {
	exists, err := s.store.Exists(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrIdeaNotFound
	}

	sub := models.IdeaSubscription{UserID: userID, IdeaID: ideaID}
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		FirstOrCreate(&sub).Error; err != nil {
		return nil, fmt.Errorf("failed to subscribe to idea: %w", err)
	}
	return &sub, nil
}

// Unsubscribe removes the link between userID and ideaID, if any.
func (s *IdeaSubscriptionService) Unsubscribe(ctx context.Context, userID string, ideaID uuid.UUID) error {
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND idea_id = ?", userID, ideaID).
		Delete(&models.IdeaSubscription{}).Error; err != nil {
		return fmt.Errorf("failed to unsubscribe from idea: %w", err)
	}
	return nil
}

// ListForUser returns the ideas userID follows, newest first.
func (s *IdeaSubscriptionService) ListForUser(ctx context.Context, userID string) ([]models.IdeaSubscription, error) {
	var subs []models.IdeaSubscription
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
