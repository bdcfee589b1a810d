package models

import "time"

// Certificate is an awarded credential worth leaderboard points.
type Certificate struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Issuer    string    `json:"issuer"`
	Points    int       `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Certificate) TableName() string {
	return "certificates"
}

// LeaderboardEntry is a ranked points total, not a persisted table.
type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Points int    `json:"points"`
}
