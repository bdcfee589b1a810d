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

type ClubHandler struct {
	svc service.ClubService
}

func NewClubHandler(svc service.ClubService) *ClubHandler {
	return &ClubHandler{svc: svc}
}

func (h *ClubHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("/:id/join", h.Join)
	rg.DELETE("/:id/join", h.Leave)
}

func (h *ClubHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	club := &models.Club{
		Name:        req.Name,
		Description: req.Description,
		Kind:        models.ClubKind(req.Kind),
		OwnerID:     userID.(string),
	}
	if err := h.svc.Create(ctx, club); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, club)
}

// List returns clubs, optionally restricted with ?kind=club or ?kind=community.
func (h *ClubHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	clubs, err := h.svc.List(ctx, models.ClubKind(c.Query("kind")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clubs": clubs})
}

func (h *ClubHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	club, err := h.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClubNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) Join(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Join(ctx, id, userID.(string)); err != nil {
		switch {
		case errors.Is(err, repository.ErrClubNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "club not found"})
		case errors.Is(err, repository.ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "already a member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ClubHandler) Leave(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid club id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Leave(ctx, id, userID.(string)); err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not a member"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
