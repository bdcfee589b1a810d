package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"collelink/internal/microservices/http-api/dto"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"
	"collelink/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/unread", h.Unread)
	rg.GET("/unread-counts", h.UnreadCounts)
	rg.PUT("/:id/read", h.MarkAsRead)
	rg.PUT("/read-all", h.MarkAllAsRead)
}

// List returns the authenticated user's notifications newest first, with
// per-category unread counts. An optional ?category= query filters the list
// server-side with the same predicate the badges use.
func (h *NotificationHandler) List(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	category := models.Category(c.Query("category"))
	if category != "" && !models.ValidCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.List(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts := models.UnreadCounts(notifications)
	if category != "" {
		notifications = models.FilterByCategory(notifications, category)
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCounts:  counts,
	})
}

// Unread returns only the user's unread notifications, newest first.
func (h *NotificationHandler) Unread(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.svc.ListUnread(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCounts returns only the badge counts, for polling clients.
func (h *NotificationHandler) UnreadCounts(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	counts, err := h.svc.UnreadCounts(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountsResponse{UnreadCounts: counts})
}

// MarkAsRead marks a specific notification as read. Re-marking an
// already-read notification succeeds.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAsRead(ctx, userID.(string), id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read for the user.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.MarkAllAsRead(ctx, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
