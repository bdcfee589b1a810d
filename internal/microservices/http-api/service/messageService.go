package service

import (
	"context"
	"errors"
	"log/slog"

	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"
)

var ErrEmptyMessage = errors.New("message content is empty")

type MessageService interface {
	Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error)
	Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherID string) error
}

type messageService struct {
	repo          repository.MessageRepository
	users         repository.UserRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewMessageService(
	repo repository.MessageRepository,
	users repository.UserRepository,
	notifications NotificationService,
	logger *slog.Logger,
) MessageService {
	return &messageService{repo: repo, users: users, notifications: notifications, logger: logger}
}

// Send stores the message and drops a message-type notification for the
// recipient, which in turn publishes a feed event for live badges.
func (s *messageService) Send(ctx context.Context, senderID, recipientID, content string) (*models.Message, error) {
	if content == "" {
		return nil, ErrEmptyMessage
	}

	sender, err := s.users.FindByID(senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(recipientID); err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:    recipientID,
		Title:     "New message",
		Content:   "Message from " + sender.Username,
		Type:      models.NotificationMessage,
		SenderID:  &senderID,
		RelatedID: &message.ID,
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		s.logger.Error("failed to notify message recipient",
			"message_id", message.ID, "error", err)
	}
	return message, nil
}

func (s *messageService) Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	return s.repo.Conversation(ctx, userID, otherID)
}

func (s *messageService) MarkConversationRead(ctx context.Context, userID, otherID string) error {
	return s.repo.MarkConversationRead(ctx, userID, otherID)
}
