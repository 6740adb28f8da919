package handlers

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"github.com/aheel03/Artspire/internal/services"
	"github.com/labstack/echo/v4"
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

// failingNotifier records that it was invoked and always fails, so tests can
// assert the triggering action succeeds anyway.
type failingNotifier struct {
	calls int
}

func (f *failingNotifier) Notify(_ context.Context, _ services.Event) (*models.Notification, error) {
	f.calls++
	return nil, errors.New("notification store unavailable")
}

type handlerEnv struct {
	e                *echo.Echo
	db               *gorm.DB
	userRepo         repositories.UserRepository
	followRepo       repositories.FollowRepository
	upvoteRepo       repositories.UpvoteRepository
	commentRepo      repositories.CommentRepository
	notificationRepo repositories.NotificationRepository
	postRepo         *fakePostRepo
	service          *services.NotificationService
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	tables := []interface{}{
		&models.User{}, &models.Comment{}, &models.Follow{}, &models.Upvote{}, &models.Notification{},
	}
	if err := db.AutoMigrate(tables...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	env := &handlerEnv{
		e:                echo.New(),
		db:               db,
		userRepo:         repositories.NewPostgresUserRepository(db),
		followRepo:       repositories.NewPostgresFollowRepository(db),
		upvoteRepo:       repositories.NewPostgresUpvoteRepository(db),
		commentRepo:      repositories.NewPostgresCommentRepository(db),
		notificationRepo: repositories.NewPostgresNotificationRepository(db),
		postRepo:         newFakePostRepo(),
	}
	env.service = services.NewNotificationService(env.notificationRepo, env.userRepo, env.postRepo, env.commentRepo)
	return env
}

func (env *handlerEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com"}
	if err := env.userRepo.CreateUser(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (env *handlerEnv) createPost(t *testing.T, authorID uint) *models.Post {
	t.Helper()
	post := &models.Post{AuthorID: authorID, Content: "new piece up"}
	if err := env.postRepo.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func (env *handlerEnv) notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()
	got, err := env.notificationRepo.FindByRecipient(userID, 0, 0)
	if err != nil {
		t.Fatalf("FindByRecipient failed: %v", err)
	}
	return got
}
