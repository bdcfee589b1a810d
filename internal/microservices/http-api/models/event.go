package models

import "time"

type Event struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClubID      int64     `gorm:"not null;index" json:"club_id"`
	OrganizerID string    `gorm:"type:uuid;not null" json:"organizer_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	Capacity    int       `gorm:"default:0" json:"capacity"` // 0 means unlimited
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Club      *Club `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Organizer *User `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
}

func (Event) TableName() string {
	return "events"
}

// Registration records a user's attendance intent for an event. Reminded
// flips once when the reminder job has notified the user, so a user is
// reminded at most once per event.
type Registration struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   int64     `gorm:"not null;uniqueIndex:idx_event_attendee" json:"event_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_event_attendee" json:"user_id"`
	Reminded  bool      `gorm:"default:false" json:"reminded"`
	CreatedAt time.Time `json:"created_at"`

	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Registration) TableName() string {
	return "registrations"
}
