package dto

// AwardCertificateRequest: payload for awarding a certificate (admin only)
type AwardCertificateRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Title  string `json:"title" binding:"required,max=200"`
	Issuer string `json:"issuer" binding:"max=200"`
	Points int    `json:"points" binding:"required,gt=0"`
}
