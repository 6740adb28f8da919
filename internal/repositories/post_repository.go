package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aheel03/Artspire/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a post id does not resolve to a stored
// post, including malformed ObjectID strings.
var ErrPostNotFound = errors.New("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error)
	IncrementUpvotesCount(ctx context.Context, postID string) error
	DecrementUpvotesCount(ctx context.Context, postID string) error
	IncrementCommentsCount(ctx context.Context, postID string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %q", ErrPostNotFound, id)
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByAuthorID retrieves posts by a specific author from MongoDB
func (r *MongoPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// IncrementUpvotesCount increments the upvotes count of a post
func (r *MongoPostRepository) IncrementUpvotesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "upvotes_count", 1)
}

// DecrementUpvotesCount decrements the upvotes count of a post
func (r *MongoPostRepository) DecrementUpvotesCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "upvotes_count", -1)
}

// IncrementCommentsCount increments the comments count of a post
func (r *MongoPostRepository) IncrementCommentsCount(ctx context.Context, postID string) error {
	return r.adjustCounter(ctx, postID, "comments_count", 1)
}

func (r *MongoPostRepository) adjustCounter(ctx context.Context, postID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrPostNotFound, postID)
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$inc": bson.M{field: delta}})
	return err
}
