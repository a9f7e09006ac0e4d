package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic is one of the fixed idea categories.
type Topic string

const (
	TopicDevtools     Topic = "devtools"
	TopicHealth       Topic = "health"
	TopicEducation    Topic = "education"
	TopicFinance      Topic = "finance"
	TopicProductivity Topic = "productivity"
	TopicOther        Topic = "other"
)

// Topics lists every valid topic in display order.
var Topics = []Topic{
	TopicDevtools,
	TopicHealth,
	TopicEducation,
	TopicFinance,
	TopicProductivity,
	TopicOther,
}

// Valid reports whether t is one of the known topics.
func (t Topic) Valid() bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}

// Idea is a generated SaaS product concept.
type Idea struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name           string    `json:"name" db:"name" gorm:"not null"`
	Pitch          string    `json:"pitch" db:"pitch" gorm:"type:text"`
	PainPoint      string    `json:"pain_point" db:"pain_point" gorm:"type:text"`
	TargetAudience string    `json:"target_audience" db:"target_audience" gorm:"type:text"`
	Topic          Topic     `json:"topic" db:"topic" gorm:"index;not null"`
	OverallScore   int       `json:"overall_score" db:"overall_score" gorm:"index;default:0"`
	IsNew          bool      `json:"is_new" db:"is_new" gorm:"default:true"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`

	// Relationships
	Score   *IdeaScore   `json:"idea_scores,omitempty" gorm:"foreignKey:IdeaID"`
	Sources []IdeaSource `json:"idea_sources,omitempty" gorm:"foreignKey:IdeaID"`
}

// BeforeCreate assigns an id when none was set
func (i *Idea) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the Idea model
func (Idea) TableName() string {
	return "ideas"
}

// IdeaScore holds the five sub-scores an idea's overall score is derived from.
type IdeaScore struct {
	ID               uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	IdeaID           uuid.UUID `json:"idea_id" db:"idea_id" gorm:"type:uuid;uniqueIndex;not null"`
	PainLevel        int       `json:"pain_level" db:"pain_level"`
	WillingnessToPay int       `json:"willingness_to_pay" db:"willingness_to_pay"`
	Competition      int       `json:"competition" db:"competition"`
	TAM              int       `json:"tam" db:"tam" gorm:"column:tam"`
	Feasibility      int       `json:"feasibility" db:"feasibility"`
	CreatedAt        time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate assigns an id when none was set
func (s *IdeaScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the IdeaScore model
func (IdeaScore) TableName() string {
	return "idea_scores"
}

// IdeaSource is a Reddit post an idea was derived from.
type IdeaSource struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	IdeaID      uuid.UUID `json:"idea_id" db:"idea_id" gorm:"type:uuid;index;not null"`
	Subreddit   string    `json:"subreddit" db:"subreddit"`
	PostURL     string    `json:"post_url" db:"post_url"`
	PostTitle   string    `json:"post_title" db:"post_title"`
	Upvotes     int       `json:"upvotes" db:"upvotes" gorm:"default:0"`
	NumComments int       `json:"num_comments" db:"num_comments" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate assigns an id when none was set
func (s *IdeaSource) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName sets the table name for the IdeaSource model
func (IdeaSource) TableName() string {
	return "idea_sources"
}
