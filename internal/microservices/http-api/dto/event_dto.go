package dto

import "time"

// CreateEventRequest: payload for creating an event under a club
type CreateEventRequest struct {
	ClubID      int64     `json:"club_id" binding:"required"`
	Title       string    `json:"title" binding:"required,min=2,max=200"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"max=200"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	Capacity    int       `json:"capacity" binding:"gte=0"`
}
