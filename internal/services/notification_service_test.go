package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakePostRepo is an in-memory stand-in for the Mongo-backed post store.
type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID.Hex()] = post
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	return post, nil
}

func (f *fakePostRepo) GetPostsByAuthorID(_ context.Context, authorID uint, _, _ int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) IncrementUpvotesCount(_ context.Context, _ string) error  { return nil }
func (f *fakePostRepo) DecrementUpvotesCount(_ context.Context, _ string) error { return nil }
func (f *fakePostRepo) IncrementCommentsCount(_ context.Context, _ string) error {
	return nil
}

type testEnv struct {
	service          *NotificationService
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	commentRepo      repositories.CommentRepository
	postRepo         *fakePostRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Comment{}, &models.Notification{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &testEnv{
		notificationRepo: repositories.NewPostgresNotificationRepository(db),
		userRepo:         repositories.NewPostgresUserRepository(db),
		commentRepo:      repositories.NewPostgresCommentRepository(db),
		postRepo:         newFakePostRepo(),
	}
	env.service = NewNotificationService(env.notificationRepo, env.userRepo, env.postRepo, env.commentRepo)
	return env
}

func (env *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := env.userRepo.CreateUser(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (env *testEnv) createPost(t *testing.T, authorID uint) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: "new piece up"}
	if err := env.postRepo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func TestNotifyFollow(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	n, err := env.service.Notify(context.Background(), FollowEvent{FollowerID: alice.ID, FollowedID: bob.ID})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notification, got nil")
	}
	if n.Type != models.NotificationTypeFollow {
		t.Errorf("type = %q, want %q", n.Type, models.NotificationTypeFollow)
	}
	if n.Message != "alice started following you." {
		t.Errorf("message = %q", n.Message)
	}
	if n.UserID != bob.ID || n.ActorID != alice.ID {
		t.Errorf("recipient/actor = %d/%d, want %d/%d", n.UserID, n.ActorID, bob.ID, alice.ID)
	}
	if n.IsRead {
		t.Error("new notification should be unread")
	}
	if n.CreatedAt.IsZero() {
		t.Error("new notification should carry a creation timestamp")
	}

	stored, err := env.notificationRepo.FindByRecipient(bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("FindByRecipient failed: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d notifications, want exactly 1", len(stored))
	}
}

func TestNotifyFollowMissingFollower(t *testing.T) {
	env := newTestEnv(t)
	bob := env.createUser(t, "bob")

	_, err := env.service.Notify(context.Background(), FollowEvent{FollowerID: 999, FollowedID: bob.ID})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "follower not found" {
		t.Errorf("error = %q, want %q", err.Error(), "follower not found")
	}

	stored, _ := env.notificationRepo.FindByRecipient(bob.ID, 0, 0)
	if len(stored) != 0 {
		t.Errorf("stored %d notifications, want 0", len(stored))
	}
}

func TestNotifyPostReaction(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, bob.ID)

	n, err := env.service.Notify(context.Background(), PostReactionEvent{ReactorID: alice.ID, PostID: post.ID.Hex()})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notification, got nil")
	}
	if n.Type != models.NotificationTypePostReaction {
		t.Errorf("type = %q, want %q", n.Type, models.NotificationTypePostReaction)
	}
	if n.Message != "alice reacted to your post." {
		t.Errorf("message = %q", n.Message)
	}
	if n.UserID != bob.ID {
		t.Errorf("recipient = %d, want post author %d", n.UserID, bob.ID)
	}
}

func TestNotifyPostReactionSelfSuppressed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice.ID)

	n, err := env.service.Notify(context.Background(), PostReactionEvent{ReactorID: alice.ID, PostID: post.ID.Hex()})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n != nil {
		t.Error("self-reaction must not create a notification")
	}

	stored, _ := env.notificationRepo.FindByRecipient(alice.ID, 0, 0)
	if len(stored) != 0 {
		t.Errorf("stored %d notifications, want 0", len(stored))
	}
}

func TestNotifyPostReactionMissingPost(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.service.Notify(context.Background(), PostReactionEvent{ReactorID: alice.ID, PostID: "does-not-exist"})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestNotifyComment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, bob.ID)

	n, err := env.service.Notify(context.Background(), CommentEvent{CommenterID: alice.ID, PostID: post.ID.Hex(), CommentID: 7})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notification, got nil")
	}
	if n.Type != models.NotificationTypeComment {
		t.Errorf("type = %q, want %q", n.Type, models.NotificationTypeComment)
	}
	if n.Message != "alice commented on your post." {
		t.Errorf("message = %q", n.Message)
	}
	if n.UserID != bob.ID || n.ActorID != alice.ID {
		t.Errorf("recipient/actor = %d/%d, want %d/%d", n.UserID, n.ActorID, bob.ID, alice.ID)
	}
}

func TestNotifyCommentOnOwnPostSuppressed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice.ID)

	n, err := env.service.Notify(context.Background(), CommentEvent{CommenterID: alice.ID, PostID: post.ID.Hex(), CommentID: 7})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n != nil {
		t.Error("commenting on own post must not create a notification")
	}
}

func TestNotifyReply(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, bob.ID)

	parent := &models.Comment{PostID: post.ID.Hex(), AuthorID: bob.ID, Content: "thoughts?"}
	if err := env.commentRepo.CreateComment(parent); err != nil {
		t.Fatalf("failed to create parent comment: %v", err)
	}

	n, err := env.service.Notify(context.Background(), ReplyEvent{ReplierID: alice.ID, ParentCommentID: parent.ID, CommentID: 42})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n == nil {
		t.Fatal("expected a notification, got nil")
	}
	// Replies share the comment notification type
	if n.Type != models.NotificationTypeComment {
		t.Errorf("type = %q, want %q", n.Type, models.NotificationTypeComment)
	}
	if n.Message != "alice replied to your comment." {
		t.Errorf("message = %q", n.Message)
	}
	if n.UserID != bob.ID {
		t.Errorf("recipient = %d, want parent comment author %d", n.UserID, bob.ID)
	}
}

func TestNotifyReplyToOwnCommentSuppressed(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	post := env.createPost(t, alice.ID)

	parent := &models.Comment{PostID: post.ID.Hex(), AuthorID: alice.ID, Content: "first"}
	if err := env.commentRepo.CreateComment(parent); err != nil {
		t.Fatalf("failed to create parent comment: %v", err)
	}

	n, err := env.service.Notify(context.Background(), ReplyEvent{ReplierID: alice.ID, ParentCommentID: parent.ID, CommentID: 43})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n != nil {
		t.Error("replying to own comment must not create a notification")
	}
}

func TestNotifyReplyMissingParent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")

	_, err := env.service.Notify(context.Background(), ReplyEvent{ReplierID: alice.ID, ParentCommentID: 999, CommentID: 44})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err.Error() != "parent comment not found" {
		t.Errorf("error = %q, want %q", err.Error(), "parent comment not found")
	}
}

type bogusEvent struct{}

func (bogusEvent) isEvent() {}

func TestNotifyRejectsUnknownEvent(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.Notify(context.Background(), bogusEvent{})
	if err == nil {
		t.Fatal("expected an error for an unhandled event type")
	}
}

func TestFrozenMessageLiveActorUsername(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	post := env.createPost(t, bob.ID)

	if _, err := env.service.Notify(context.Background(), CommentEvent{CommenterID: alice.ID, PostID: post.ID.Hex(), CommentID: 1}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	// The actor renames after the notification exists
	alice.Username = "bee"
	if err := env.userRepo.UpdateUser(alice); err != nil {
		t.Fatalf("failed to rename user: %v", err)
	}

	detailed, err := env.service.ListForUserWithActors(bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListForUserWithActors failed: %v", err)
	}
	if len(detailed) != 1 {
		t.Fatalf("got %d entries, want 1", len(detailed))
	}
	if detailed[0].Message != "alice commented on your post." {
		t.Errorf("message must keep the original wording, got %q", detailed[0].Message)
	}
	if detailed[0].ActorUsername != "bee" {
		t.Errorf("actor username must be live, got %q", detailed[0].ActorUsername)
	}
}

func TestListWithActorsUnknownActor(t *testing.T) {
	env := newTestEnv(t)
	bob := env.createUser(t, "bob")

	n := &models.Notification{
		Type:      models.NotificationTypeFollow,
		Message:   "ghost started following you.",
		UserID:    bob.ID,
		ActorID:   12345, // never existed
		CreatedAt: time.Now().UTC(),
	}
	if err := env.notificationRepo.Insert(n); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	detailed, err := env.service.ListForUserWithActors(bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListForUserWithActors failed: %v", err)
	}
	if len(detailed) != 1 {
		t.Fatalf("got %d entries, want 1", len(detailed))
	}
	if detailed[0].ActorUsername != "Unknown" {
		t.Errorf("unresolvable actor should render as Unknown, got %q", detailed[0].ActorUsername)
	}
}

func TestReadStateTransitions(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := base
	env.service.now = func() time.Time {
		next = next.Add(time.Second)
		return next
	}

	if _, err := env.service.Notify(context.Background(), FollowEvent{FollowerID: alice.ID, FollowedID: bob.ID}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if _, err := env.service.Notify(context.Background(), FollowEvent{FollowerID: carol.ID, FollowedID: bob.ID}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	count, err := env.service.UnreadCount(bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("unread count = %d, want 2", count)
	}

	listed, err := env.service.ListForUser(bob.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d notifications, want 2", len(listed))
	}
	// carol's follow came second, so it lists first
	if listed[0].ActorID != carol.ID {
		t.Errorf("newest notification actor = %d, want %d", listed[0].ActorID, carol.ID)
	}

	marked, err := env.service.MarkAllRead(bob.ID)
	if err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}
	if marked != 2 {
		t.Errorf("MarkAllRead affected %d, want 2", marked)
	}

	count, err = env.service.UnreadCount(bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount failed: %v", err)
	}
	if count != 0 {
		t.Errorf("unread count after MarkAllRead = %d, want 0", count)
	}
}

func TestMarkReadWrongOwnerIsNotAnError(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	n, err := env.service.Notify(context.Background(), FollowEvent{FollowerID: alice.ID, FollowedID: bob.ID})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	updated, err := env.service.MarkRead(n.ID, alice.ID)
	if err != nil {
		t.Fatalf("MarkRead returned an error: %v", err)
	}
	if updated {
		t.Error("MarkRead let a non-owner flip the read state")
	}
}
