package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"collelink/internal/microservices/http-api/dto"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	svc service.LeaderboardService
}

func NewLeaderboardHandler(svc service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{svc: svc}
}

// RegisterRoutes mounts the read routes; Award is mounted separately under
// admin middleware by the caller.
func (h *LeaderboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Top)
	rg.GET("/certificates", h.MyCertificates)
}

// Top returns the highest-scoring users, default 10, capped by ?limit=.
func (h *LeaderboardHandler) Top(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.Top(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

func (h *LeaderboardHandler) MyCertificates(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	certificates, err := h.svc.Certificates(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"certificates": certificates})
}

// Award grants a certificate to a user. Admin only.
func (h *LeaderboardHandler) Award(c *gin.Context) {
	var req dto.AwardCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	certificate := &models.Certificate{
		UserID: req.UserID,
		Title:  req.Title,
		Issuer: req.Issuer,
		Points: req.Points,
	}
	if err := h.svc.Award(ctx, certificate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, certificate)
}
