package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"collelink/internal/feed"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of this handler
	CheckOrigin: func(r *http.Request) bool { return true },
}

// changeEvent is the only frame the stream emits: a refetch trigger with the
// current badge counts attached, computed from the session's cached snapshot.
type changeEvent struct {
	Type         string                  `json:"type"`
	At           time.Time               `json:"at"`
	UnreadCounts map[models.Category]int `json:"unread_counts"`
}

// Handler upgrades authenticated requests to a websocket that streams
// notification changes for the session user. Each connection owns a
// NotificationCenter whose lifecycle matches the connection's.
type Handler struct {
	hub           *feed.Hub
	auth          service.AuthService
	notifications service.NotificationService
	logger        *slog.Logger
}

func NewHandler(hub *feed.Hub, auth service.AuthService, notifications service.NotificationService, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, auth: auth, notifications: notifications, logger: logger}
}

// Serve handles GET /api/ws?token=<access token>. Browsers cannot set an
// Authorization header on a websocket dial, so the token rides the query.
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	center := service.NewNotificationCenter(claims.UserID, h.notifications, h.hub, h.logger)

	loadCtx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	_, err = center.Load(loadCtx)
	cancel()
	if err != nil {
		center.Close()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load notifications"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		center.Close()
		h.logger.Error("websocket upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	client := NewClient(claims.UserID, conn, h.logger)

	// push the starting badge state, then one frame per refetch; the range
	// ends when center.Close runs, which also releases the feed subscription
	go func() {
		defer close(client.Send)
		h.push(client, center, time.Now().UTC())
		for at := range center.Updates() {
			h.push(client, center, at)
		}
	}()

	go client.WritePump()
	go func() {
		client.ReadPump()
		// reader exit means the connection is gone
		center.Close()
	}()
}

func (h *Handler) push(client *Client, center *service.NotificationCenter, at time.Time) {
	data, err := json.Marshal(changeEvent{
		Type:         "notifications_changed",
		At:           at,
		UnreadCounts: center.UnreadCounts(),
	})
	if err != nil {
		h.logger.Error("failed to marshal feed event", "error", err)
		return
	}
	select {
	case client.Send <- data:
	default: // slow client, drop; it catches up on the next event
	}
}
