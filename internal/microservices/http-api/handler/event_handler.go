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

type EventHandler struct {
	svc service.EventService
}

func NewEventHandler(svc service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.ListUpcoming)
	rg.POST("/:id/register", h.Register)
	rg.DELETE("/:id/register", h.Unregister)
	rg.GET("/:id/attendees", h.Attendees)
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	event := &models.Event{
		ClubID:      req.ClubID,
		OrganizerID: userID.(string),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		Capacity:    req.Capacity,
	}
	if err := h.svc.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) ListUpcoming(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	events, err := h.svc.ListUpcoming(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *EventHandler) Register(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Register(ctx, id, userID.(string)); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, repository.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "already registered"})
		case errors.Is(err, repository.ErrEventFull):
			c.JSON(http.StatusConflict, gin.H{"error": "event is full"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Unregister removes the registration; removing a non-existent one succeeds.
func (h *EventHandler) Unregister(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Unregister(ctx, id, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Attendees lists registrations for an event; organizers only.
func (h *EventHandler) Attendees(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	attendees, err := h.svc.Attendees(ctx, id, userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, service.ErrNotOrganizer):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the organizer may view attendees"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"attendees": attendees})
}
