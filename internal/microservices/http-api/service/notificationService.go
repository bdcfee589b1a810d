package service

import (
	"context"
	"errors"

	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"
)

var ErrNotSignedIn = errors.New("caller is not signed in")

// FeedPublisher announces that a user's notification list changed.
// Implemented by feed.Bridge; consumers treat the event as a refetch trigger.
type FeedPublisher interface {
	Publish(ctx context.Context, userID string)
}

type NotificationService interface {
	// List returns every notification owned by the user, newest first.
	// An empty user ID is an unauthenticated read: empty list, no error.
	List(ctx context.Context, userID string) ([]models.Notification, error)
	// ListUnread narrows List to read=false rows, same ordering and same
	// unauthenticated no-op.
	ListUnread(ctx context.Context, userID string) ([]models.Notification, error)
	UnreadCounts(ctx context.Context, userID string) (map[models.Category]int, error)
	MarkAsRead(ctx context.Context, userID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
	// Notify persists a notification and publishes a feed event. Called by
	// the other services (messages, events, clubs, leaderboard), never by
	// HTTP clients directly.
	Notify(ctx context.Context, notification *models.Notification) error
}

type notificationService struct {
	repo repository.NotificationRepository
	feed FeedPublisher
}

func NewNotificationService(repo repository.NotificationRepository, feed FeedPublisher) NotificationService {
	return &notificationService{repo: repo, feed: feed}
}

func (s *notificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return []models.Notification{}, nil
	}
	return s.repo.GetByUser(ctx, userID)
}

func (s *notificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	if userID == "" {
		return []models.Notification{}, nil
	}
	return s.repo.GetUnreadByUser(ctx, userID)
}

func (s *notificationService) UnreadCounts(ctx context.Context, userID string) (map[models.Category]int, error) {
	notifications, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.UnreadCounts(notifications), nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := s.repo.MarkAsRead(ctx, userID, notificationID); err != nil {
		return err
	}
	s.feed.Publish(ctx, userID)
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrNotSignedIn
	}
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.feed.Publish(ctx, userID)
	return nil
}

func (s *notificationService) Notify(ctx context.Context, notification *models.Notification) error {
	if notification.UserID == "" {
		return ErrNotSignedIn
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}
	s.feed.Publish(ctx, notification.UserID)
	return nil
}
