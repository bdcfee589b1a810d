package repository

import (
	"context"
	"errors"

	"collelink/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a mark-read targets a
// notification that does not exist or is owned by someone else.
var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUser(ctx context.Context, userID string) ([]models.Notification, error)
	GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetByUser returns every notification owned by the user, newest first.
func (r *notificationRepository) GetByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = false", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead sets read = true on the user's notification. Marking an
// already-read notification succeeds; a missing or foreign notification
// yields ErrNotificationNotFound.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllAsRead flips every unread notification for the user. Updating zero
// rows is a success; the operation is idempotent.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		Update("read", true).Error
}
