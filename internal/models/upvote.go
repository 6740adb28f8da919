package models

import "time"

// Upvote represents an upvote on a post
type Upvote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_post_user"` // MongoDB ObjectID hex
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_post_user"`
	CreatedAt time.Time `json:"created_at"`
}
