package dto

// SendMessageRequest: payload for sending a direct message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Content     string `json:"content" binding:"required,max=5000"`
}
