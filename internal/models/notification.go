package models

import "time"

// NotificationType is the closed set of activity kinds that produce a
// notification. Adding a kind requires updating every switch over it.
type NotificationType string

const (
	NotificationTypeFollow       NotificationType = "follow"
	NotificationTypePostReaction NotificationType = "post_reaction"
	NotificationTypeComment      NotificationType = "comment"
)

// Notification represents an activity notification (PostgreSQL).
// Message is rendered once at creation time from the actor's username and is
// never recomputed; if the actor later renames, old notifications keep the
// old name. Only IsRead ever changes after insert.
type Notification struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	Type      NotificationType `json:"type" gorm:"size:30;index"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt time.Time        `json:"created_at" gorm:"index"`
	UserID    uint             `json:"user_id" gorm:"index"` // recipient
	ActorID   uint             `json:"actor_id" gorm:"index"`
}
