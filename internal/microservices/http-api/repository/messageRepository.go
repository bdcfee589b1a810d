package repository

import (
	"context"

	"collelink/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error)
	MarkConversationRead(ctx context.Context, userID, otherID string) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// Conversation returns both directions of a two-party thread, oldest first.
func (r *messageRepository) Conversation(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flips the messages the other party sent to the user.
func (r *messageRepository) MarkConversationRead(ctx context.Context, userID, otherID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read = false", userID, otherID).
		Update("read", true).Error
}
