package dto

// CreateClubRequest: payload for creating a club or community
type CreateClubRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Kind        string `json:"kind" binding:"omitempty,oneof=club community"`
}
