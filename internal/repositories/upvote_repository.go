package repositories

import (
	"fmt"

	"github.com/aheel03/Artspire/internal/models"
	"gorm.io/gorm"
)

// UpvoteRepository defines the interface for upvote data operations
type UpvoteRepository interface {
	CreateUpvote(upvote *models.Upvote) error
	DeleteUpvote(postID string, userID uint) error
	GetUpvotesCountByPostID(postID string) (int64, error)
	HasUserUpvotedPost(postID string, userID uint) (bool, error)
}

// PostgresUpvoteRepository implements UpvoteRepository for PostgreSQL
type PostgresUpvoteRepository struct {
	db *gorm.DB
}

// NewPostgresUpvoteRepository creates a new PostgresUpvoteRepository
func NewPostgresUpvoteRepository(db *gorm.DB) *PostgresUpvoteRepository {
	return &PostgresUpvoteRepository{db: db}
}

// CreateUpvote creates a new upvote in PostgreSQL
func (r *PostgresUpvoteRepository) CreateUpvote(upvote *models.Upvote) error {
	return r.db.Create(upvote).Error
}

// DeleteUpvote deletes an upvote from PostgreSQL
func (r *PostgresUpvoteRepository) DeleteUpvote(postID string, userID uint) error {
	res := r.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Upvote{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("upvote not found")
	}
	return nil
}

// GetUpvotesCountByPostID retrieves the count of upvotes for a specific post
func (r *PostgresUpvoteRepository) GetUpvotesCountByPostID(postID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Upvote{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserUpvotedPost checks if a user has upvoted a specific post
func (r *PostgresUpvoteRepository) HasUserUpvotedPost(postID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Upvote{}).Where("post_id = ? AND user_id = ?", postID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
