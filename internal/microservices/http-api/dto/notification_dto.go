package dto

import "collelink/internal/microservices/http-api/models"

// NotificationListResponse: notification feed plus per-category badges,
// everything the filter-tab UI consumes in one response.
type NotificationListResponse struct {
	Notifications []models.Notification   `json:"notifications"`
	UnreadCounts  map[models.Category]int `json:"unread_counts"`
}

// UnreadCountsResponse: badge counts keyed by category.
type UnreadCountsResponse struct {
	UnreadCounts map[models.Category]int `json:"unread_counts"`
}
