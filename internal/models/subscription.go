package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Frequency is the informational delivery preference of an email subscription.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// EmailSubscription is a newsletter subscriber. Rows are deactivated, never deleted.
type EmailSubscription struct {
	ID               uuid.UUID                  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Email            string                     `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	Topics           datatypes.JSONSlice[Topic] `json:"topics" db:"topics"` // empty means all topics
	Frequency        Frequency                  `json:"frequency" db:"frequency" gorm:"default:'weekly'"`
	IsActive         bool                       `json:"is_active" db:"is_active" gorm:"index"`
	UnsubscribeToken string                     `json:"-" db:"unsubscribe_token" gorm:"uniqueIndex;not null"`
	CreatedAt        time.Time                  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time                  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
	UnsubscribedAt   *time.Time                 `json:"unsubscribed_at" db:"unsubscribed_at"`
}

// BeforeCreate assigns the id and unsubscribe token
func (s *EmailSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.UnsubscribeToken == "" {
		s.UnsubscribeToken = uuid.NewString()
	}
	return nil
}

// TableName sets the table name for the EmailSubscription model
func (EmailSubscription) TableName() string {
	return "email_subscriptions"
}

// Matches reports whether an idea with the given topic belongs in this subscriber's digest.
func (s *EmailSubscription) Matches(topic Topic) bool {
	if len(s.Topics) == 0 {
		return true
	}
	for _, t := range s.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// IdeaSubscription links an authenticated user to an idea they follow.
type IdeaSubscription struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex:idx_user_idea"`
	IdeaID    uuid.UUID `json:"idea_id" db:"idea_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_idea"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate assigns an id when none was set
func (s *IdeaSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the IdeaSubscription model
func (IdeaSubscription) TableName() string {
	return "subscriptions"
}
