package models

import "time"

// Post is the processed marker for a Reddit post. A row exists only once an
// idea has been generated from the post.
type Post struct {
	ID            string    `json:"id" db:"id" gorm:"primaryKey"` // Reddit post id
	Subreddit     string    `json:"subreddit" db:"subreddit" gorm:"index;not null"`
	Title         string    `json:"title" db:"title" gorm:"not null"`
	URL           string    `json:"url" db:"url"`
	Upvotes       int       `json:"upvotes" db:"upvotes" gorm:"default:0"`
	NumComments   int       `json:"num_comments" db:"num_comments" gorm:"default:0"`
	PostCreatedAt time.Time `json:"post_created_at" db:"post_created_at"` // when the thread was posted
	IdeaGenerated bool      `json:"idea_generated" db:"idea_generated" gorm:"default:false"`
	ProcessedAt   time.Time `json:"processed_at" db:"processed_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Post model
func (Post) TableName() string {
	return "reddit_posts"
}
