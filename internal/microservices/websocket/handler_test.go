package websocket

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"collelink/internal/feed"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuthService accepts a single well-known token for one user
type stubAuthService struct {
	userID string
}

func (s *stubAuthService) Register(username, password, email, displayName string) (*models.User, error) {
	return nil, nil
}

func (s *stubAuthService) Login(username, password string) (string, string, *models.User, error) {
	return "", "", nil, nil
}

func (s *stubAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	return "", nil
}

func (s *stubAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	if tokenString != "good-token" {
		return nil, service.ErrInvalidToken
	}
	return &service.Claims{UserID: s.userID}, nil
}

func (s *stubAuthService) RevokeToken(refreshToken string) error {
	return nil
}

// stubNotificationService is an in-memory backend the per-connection center
// refetches from.
type stubNotificationService struct {
	mu            sync.Mutex
	notifications map[string][]models.Notification
}

func newStubNotificationService() *stubNotificationService {
	return &stubNotificationService{notifications: make(map[string][]models.Notification)}
}

func (s *stubNotificationService) add(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.UserID] = append([]models.Notification{n}, s.notifications[n.UserID]...)
}

func (s *stubNotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notifications[userID]))
	copy(out, s.notifications[userID])
	return out, nil
}

func (s *stubNotificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	ns, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.FilterByCategory(ns, models.CategoryUnread), nil
}

func (s *stubNotificationService) UnreadCounts(ctx context.Context, userID string) (map[models.Category]int, error) {
	ns, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return models.UnreadCounts(ns), nil
}

func (s *stubNotificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	return nil
}

func (s *stubNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	return nil
}

func (s *stubNotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	s.add(*notification)
	return nil
}

func setupServer(t *testing.T, hub *feed.Hub, svc *stubNotificationService) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewHandler(hub, &stubAuthService{userID: "user-1"}, svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.GET("/api/ws", h.Serve)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server, token string) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws?token=" + token
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServe_StreamsBadgeState(t *testing.T) {
	hub := feed.NewHub()
	svc := newStubNotificationService()
	svc.add(models.Notification{ID: 1, UserID: "user-1", Type: models.NotificationMessage})
	server := setupServer(t, hub, svc)

	conn := dial(t, server, "good-token")

	var frame changeEvent
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "notifications_changed", frame.Type)
	assert.Equal(t, 1, frame.UnreadCounts[models.CategoryAll])
	assert.Equal(t, 1, frame.UnreadCounts[models.CategoryMessages])

	// a new notification plus a feed event pushes refreshed counts
	svc.add(models.Notification{ID: 2, UserID: "user-1", Type: models.NotificationEvent})
	hub.Publish("user-1")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, 2, frame.UnreadCounts[models.CategoryAll])
	assert.Equal(t, 1, frame.UnreadCounts[models.CategoryEvents])
}

func TestServe_ReleasesSubscriptionOnDisconnect(t *testing.T) {
	hub := feed.NewHub()
	server := setupServer(t, hub, newStubNotificationService())

	conn := dial(t, server, "good-token")
	assert.Eventually(t, func() bool {
		return hub.Count("user-1") == 1
	}, 2*time.Second, 10*time.Millisecond, "connection did not subscribe")

	conn.Close()
	assert.Eventually(t, func() bool {
		return hub.Count("user-1") == 0
	}, 2*time.Second, 10*time.Millisecond, "subscription leaked after disconnect")
}

func TestServe_RejectsBadToken(t *testing.T) {
	server := setupServer(t, feed.NewHub(), newStubNotificationService())

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/ws?token=bad-token"
	conn, resp, err := gorilla.DefaultDialer.Dial(url, nil)

	require.Error(t, err)
	if conn != nil {
		conn.Close()
	}
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
