package models

import "time"

// ClubKind distinguishes student clubs from open communities. The two share
// a table; the kind decides which notification type membership activity emits.
type ClubKind string

const (
	KindClub      ClubKind = "club"
	KindCommunity ClubKind = "community"
)

type Club struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description"`
	Kind        ClubKind  `gorm:"not null;default:'club'" json:"kind"`
	OwnerID     string    `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Owner   *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []Membership `gorm:"foreignKey:ClubID" json:"members,omitempty"`
}

func (Club) TableName() string {
	return "clubs"
}

// NotificationType returns the notification type emitted for activity in
// this club or community.
func (c *Club) NotificationType() NotificationType {
	if c.Kind == KindCommunity {
		return NotificationCommunity
	}
	return NotificationClub
}

type Membership struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClubID    int64     `gorm:"not null;uniqueIndex:idx_club_member" json:"club_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_club_member" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Membership) TableName() string {
	return "memberships"
}
