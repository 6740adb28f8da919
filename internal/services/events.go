package services

import (
	"context"

	"github.com/aheel03/Artspire/internal/models"
)

// Event is the closed set of activities that can produce a notification.
// Each variant carries its actor and the reference needed to resolve the
// recipient. New variants require a new case in NotificationService.Notify.
type Event interface {
	isEvent()
}

// FollowEvent is emitted after a follow relationship is created.
// The followed user becomes the recipient.
type FollowEvent struct {
	FollowerID uint
	FollowedID uint
}

// PostReactionEvent is emitted after a post is upvoted.
// The post's author becomes the recipient.
type PostReactionEvent struct {
	ReactorID uint
	PostID    string
}

// CommentEvent is emitted after a comment is created on a post.
// The post's author becomes the recipient. CommentID references the already
// committed comment row and is not validated here.
type CommentEvent struct {
	CommenterID uint
	PostID      string
	CommentID   uint
}

// ReplyEvent is emitted after a reply to a comment. The parent comment's
// author becomes the recipient. No route currently dispatches this event.
type ReplyEvent struct {
	ReplierID       uint
	ParentCommentID uint
	CommentID       uint
}

func (FollowEvent) isEvent()       {}
func (PostReactionEvent) isEvent() {}
func (CommentEvent) isEvent()      {}
func (ReplyEvent) isEvent()        {}

// Notifier is the seam between triggering actions and notification creation.
// Call sites invoke it only after their own write has committed, and must
// treat any returned error as non-fatal to the action they just completed:
// log it and return the action's success response regardless.
//
// A nil notification with a nil error means the event was suppressed
// (self-notification) and no record was created.
type Notifier interface {
	Notify(ctx context.Context, event Event) (*models.Notification, error)
}
