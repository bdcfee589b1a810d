package models

import "time"

// NotificationType is the closed set of notification kinds the backend emits.
type NotificationType string

const (
	NotificationMessage     NotificationType = "message"
	NotificationEvent       NotificationType = "event"
	NotificationLike        NotificationType = "like"
	NotificationAchievement NotificationType = "achievement"
	NotificationFriend      NotificationType = "friend"
	NotificationSystem      NotificationType = "system"
	NotificationClub        NotificationType = "club"
	NotificationCommunity   NotificationType = "community"
)

type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	Type      NotificationType `gorm:"not null" json:"type"`
	SenderID  *string          `gorm:"type:uuid" json:"sender_id,omitempty"`
	RelatedID *int64           `json:"related_id,omitempty"`
	Read      bool             `gorm:"default:false" json:"read"`
	CreatedAt time.Time        `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`

	// Associations
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Category is a derived view over notification types used for filter tabs
// and unread badges. "all" and "unread" are view filters; the rest partition
// the type enum, with "other" as the complement of the four named buckets.
type Category string

const (
	CategoryAll         Category = "all"
	CategoryUnread      Category = "unread"
	CategoryMessages    Category = "messages"
	CategoryEvents      Category = "events"
	CategoryClubs       Category = "clubs"
	CategoryCommunities Category = "communities"
	CategoryOther       Category = "other"
)

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryAll, CategoryUnread, CategoryMessages, CategoryEvents,
		CategoryClubs, CategoryCommunities, CategoryOther,
	}
}

// ValidCategory reports whether c is one of the seven known categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryOf maps a notification type to its filter bucket. Types outside
// the four named buckets (like, achievement, friend, system, or anything
// added later) fall into CategoryOther without further mapping work.
func CategoryOf(t NotificationType) Category {
	switch t {
	case NotificationMessage:
		return CategoryMessages
	case NotificationEvent:
		return CategoryEvents
	case NotificationClub:
		return CategoryClubs
	case NotificationCommunity:
		return CategoryCommunities
	default:
		return CategoryOther
	}
}

// InCategory reports whether the notification belongs to the given category.
func (n *Notification) InCategory(c Category) bool {
	switch c {
	case CategoryAll:
		return true
	case CategoryUnread:
		return !n.Read
	default:
		return CategoryOf(n.Type) == c
	}
}

// FilterByCategory returns the notifications matching the category,
// preserving the input order.
func FilterByCategory(ns []Notification, c Category) []Notification {
	filtered := make([]Notification, 0, len(ns))
	for _, n := range ns {
		if n.InCategory(c) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}

// UnreadCounts computes the unread badge count for every category.
// counts[CategoryAll] always equals counts[CategoryUnread], and the five
// type buckets sum to it exactly.
func UnreadCounts(ns []Notification) map[Category]int {
	counts := make(map[Category]int, 7)
	for _, c := range Categories() {
		counts[c] = 0
	}
	for _, n := range ns {
		if n.Read {
			continue
		}
		counts[CategoryAll]++
		counts[CategoryUnread]++
		counts[CategoryOf(n.Type)]++
	}
	return counts
}
