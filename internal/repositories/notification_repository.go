package repositories

import (
	"fmt"

	"github.com/aheel03/Artspire/internal/models"
	"gorm.io/gorm"
)

// defaultNotificationLimit is applied when the caller passes no usable limit.
const defaultNotificationLimit = 50

// NotificationRepository defines the interface for notification persistence.
// Rows are insert-only except for the read flag; content columns are never
// updated after creation.
type NotificationRepository interface {
	Insert(notification *models.Notification) error
	FindByRecipient(userID uint, limit, offset int) ([]models.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(notificationID, userID uint) (bool, error)
	MarkAllRead(userID uint) (int64, error)
}

// PostgresNotificationRepository implements NotificationRepository for PostgreSQL
type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new PostgresNotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Insert persists a new notification row
func (r *PostgresNotificationRepository) Insert(notification *models.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// FindByRecipient retrieves notifications owned by userID, most recent first
func (r *PostgresNotificationRepository) FindByRecipient(userID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if offset < 0 {
		offset = 0
	}

	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	return notifications, nil
}

// CountUnread returns the number of unread notifications owned by userID
func (r *PostgresNotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flags a single notification as read. The recipient check is part
// of the WHERE clause so one user cannot mark another's notification read by
// guessing ids. Reports whether a row was updated.
func (r *PostgresNotificationRepository) MarkRead(notificationID, userID uint) (bool, error) {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return false, fmt.Errorf("mark notification read: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkAllRead flags every unread notification owned by userID as read and
// returns the number of rows affected. A second consecutive call returns 0.
func (r *PostgresNotificationRepository) MarkAllRead(userID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
