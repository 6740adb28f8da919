package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"gorm.io/gorm"
)

// NotificationWithActor is a notification entry enriched with the actor's
// CURRENT username. The Message text stays frozen at what it said when the
// notification was created; only ActorUsername is live.
type NotificationWithActor struct {
	ID            uint                    `json:"id"`
	ActorUsername string                  `json:"actor_username"`
	Message       string                  `json:"message"`
	CreatedAt     time.Time               `json:"created_at"`
	Type          models.NotificationType `json:"type"`
	IsRead        bool                    `json:"is_read"`
}

// NotificationService decides whether an activity produces a notification,
// renders its message, and owns the read-state transitions. It commits its
// writes independently of the triggering action's transaction.
type NotificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	postRepo         repositories.PostRepository
	commentRepo      repositories.CommentRepository

	// now supplies CreatedAt timestamps; overridable in tests.
	now func() time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		postRepo:         postRepo,
		commentRepo:      commentRepo,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Notify constructs and persists the notification for event. It returns
// (nil, nil) when the event is suppressed because the actor would be
// notifying themselves. A *NotFoundError is returned when a referenced
// entity no longer exists.
func (s *NotificationService) Notify(ctx context.Context, event Event) (*models.Notification, error) {
	switch e := event.(type) {
	case FollowEvent:
		return s.notifyFollow(e)
	case PostReactionEvent:
		return s.notifyPostReaction(ctx, e)
	case CommentEvent:
		return s.notifyComment(ctx, e)
	case ReplyEvent:
		return s.notifyReply(e)
	default:
		return nil, fmt.Errorf("unhandled notification event %T", event)
	}
}

// notifyFollow notifies the followed user. The follower must exist; the
// followed user's existence is not checked here because the follow handler
// has already resolved the target before creating the relationship.
// Self-follow suppression also belongs to that handler, not this layer.
func (s *NotificationService) notifyFollow(e FollowEvent) (*models.Notification, error) {
	follower, err := s.lookupUser(e.FollowerID, "follower")
	if err != nil {
		return nil, err
	}

	return s.create(
		models.NotificationTypeFollow,
		fmt.Sprintf("%s started following you.", follower.Username),
		e.FollowedID,
		e.FollowerID,
	)
}

func (s *NotificationService) notifyPostReaction(ctx context.Context, e PostReactionEvent) (*models.Notification, error) {
	reactor, err := s.lookupUser(e.ReactorID, "reactor")
	if err != nil {
		return nil, err
	}
	post, err := s.lookupPost(ctx, e.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == e.ReactorID {
		return nil, nil // never notify a user of their own reaction
	}

	return s.create(
		models.NotificationTypePostReaction,
		fmt.Sprintf("%s reacted to your post.", reactor.Username),
		post.AuthorID,
		e.ReactorID,
	)
}

func (s *NotificationService) notifyComment(ctx context.Context, e CommentEvent) (*models.Notification, error) {
	commenter, err := s.lookupUser(e.CommenterID, "commenter")
	if err != nil {
		return nil, err
	}
	post, err := s.lookupPost(ctx, e.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID == e.CommenterID {
		return nil, nil
	}

	return s.create(
		models.NotificationTypeComment,
		fmt.Sprintf("%s commented on your post.", commenter.Username),
		post.AuthorID,
		e.CommenterID,
	)
}

// notifyReply notifies the parent comment's author. Replies share the
// comment notification type.
func (s *NotificationService) notifyReply(e ReplyEvent) (*models.Notification, error) {
	replier, err := s.lookupUser(e.ReplierID, "replier")
	if err != nil {
		return nil, err
	}
	parent, err := s.commentRepo.GetCommentByID(e.ParentCommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "parent comment"}
		}
		return nil, fmt.Errorf("lookup parent comment: %w", err)
	}
	if parent.AuthorID == e.ReplierID {
		return nil, nil
	}

	return s.create(
		models.NotificationTypeComment,
		fmt.Sprintf("%s replied to your comment.", replier.Username),
		parent.AuthorID,
		e.ReplierID,
	)
}

func (s *NotificationService) create(kind models.NotificationType, message string, recipientID, actorID uint) (*models.Notification, error) {
	notification := &models.Notification{
		Type:      kind,
		Message:   message,
		IsRead:    false,
		CreatedAt: s.now(),
		UserID:    recipientID,
		ActorID:   actorID,
	}
	if err := s.notificationRepo.Insert(notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *NotificationService) lookupUser(id uint, role string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: role}
		}
		return nil, fmt.Errorf("lookup %s: %w", role, err)
	}
	return user, nil
}

func (s *NotificationService) lookupPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.postRepo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, &NotFoundError{Entity: "post"}
		}
		return nil, fmt.Errorf("lookup post: %w", err)
	}
	return post, nil
}

// ListForUser returns userID's notifications, most recent first.
func (s *NotificationService) ListForUser(userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notificationRepo.FindByRecipient(userID, limit, offset)
}

// ListForUserWithActors returns userID's notifications with each actor's
// current username resolved. Actors that no longer resolve are reported as
// "Unknown" rather than failing the whole page.
func (s *NotificationService) ListForUserWithActors(userID uint, limit, offset int) ([]NotificationWithActor, error) {
	notifications, err := s.notificationRepo.FindByRecipient(userID, limit, offset)
	if err != nil {
		return nil, err
	}

	usernames := make(map[uint]string)
	result := make([]NotificationWithActor, 0, len(notifications))
	for _, n := range notifications {
		username, ok := usernames[n.ActorID]
		if !ok {
			username = "Unknown"
			if actor, err := s.userRepo.GetUserByID(n.ActorID); err == nil {
				username = actor.Username
			}
			usernames[n.ActorID] = username
		}
		result = append(result, NotificationWithActor{
			ID:            n.ID,
			ActorUsername: username,
			Message:       n.Message,
			CreatedAt:     n.CreatedAt,
			Type:          n.Type,
			IsRead:        n.IsRead,
		})
	}
	return result, nil
}

// UnreadCount returns the number of unread notifications owned by userID.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkRead transitions one owned notification to read. Returns false, not an
// error, when no notification with that id belongs to userID.
func (s *NotificationService) MarkRead(notificationID, userID uint) (bool, error) {
	return s.notificationRepo.MarkRead(notificationID, userID)
}

// MarkAllRead transitions every unread notification owned by userID to read
// and returns how many were affected.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.notificationRepo.MarkAllRead(userID)
}
