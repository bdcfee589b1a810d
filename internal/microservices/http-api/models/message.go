package models

import "time"

type Message struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    string    `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID string    `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Content     string    `gorm:"not null" json:"content"`
	Read        bool      `gorm:"default:false" json:"read"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`

	// Associations
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
