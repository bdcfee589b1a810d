package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"collelink/internal/microservices/http-api/dto"
	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationService mocks the NotificationService interface
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) ListUnread(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationService) UnreadCounts(ctx context.Context, userID string) (map[models.Category]int, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[models.Category]int), args.Error(1)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID string, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationService) Notify(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

// fakeAuth injects a user into the gin context the way AuthMiddleware does
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	}
}

func setupNotificationRouter(svc *MockNotificationService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/api/notifications", fakeAuth(userID))
	NewNotificationHandler(svc).RegisterRoutes(group)
	return router
}

func TestNotificationList_Success(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("List", mock.Anything, "user-1").Return([]models.Notification{
		{ID: 2, UserID: "user-1", Type: models.NotificationMessage, Read: false},
		{ID: 1, UserID: "user-1", Type: models.NotificationFriend, Read: true},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.NotificationListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Notifications, 2)
	assert.Equal(t, int64(2), response.Notifications[0].ID)
	assert.Equal(t, 1, response.UnreadCounts[models.CategoryAll])
	assert.Equal(t, 1, response.UnreadCounts[models.CategoryMessages])

	svc.AssertExpectations(t)
}

func TestNotificationList_CategoryFilterKeepsFullCounts(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("List", mock.Anything, "user-1").Return([]models.Notification{
		{ID: 3, Type: models.NotificationMessage, Read: false},
		{ID: 2, Type: models.NotificationEvent, Read: false},
		{ID: 1, Type: models.NotificationFriend, Read: false},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/notifications?category=messages", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.NotificationListResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Notifications, 1)
	assert.Equal(t, int64(3), response.Notifications[0].ID)
	// counts describe the whole set, not the filtered view
	assert.Equal(t, 3, response.UnreadCounts[models.CategoryAll])
}

func TestNotificationList_UnknownCategory(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	req, _ := http.NewRequest("GET", "/api/notifications?category=bogus", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List")
}

func TestNotificationUnread_Success(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("ListUnread", mock.Anything, "user-1").Return([]models.Notification{
		{ID: 5, UserID: "user-1", Type: models.NotificationClub, Read: false},
	}, nil)

	req, _ := http.NewRequest("GET", "/api/notifications/unread", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Notifications []models.Notification `json:"notifications"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Notifications, 1)
	assert.Equal(t, int64(5), response.Notifications[0].ID)

	svc.AssertExpectations(t)
}

func TestNotificationList_Unauthenticated(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "")

	req, _ := http.NewRequest("GET", "/api/notifications", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "List")
}

func TestUnreadCounts_Success(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("UnreadCounts", mock.Anything, "user-1").Return(map[models.Category]int{
		models.CategoryAll: 2, models.CategoryUnread: 2, models.CategoryMessages: 2,
	}, nil)

	req, _ := http.NewRequest("GET", "/api/notifications/unread-counts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.UnreadCountsResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 2, response.UnreadCounts[models.CategoryMessages])
}

func TestMarkAsRead_Success(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("MarkAsRead", mock.Anything, "user-1", int64(42)).Return(nil)

	req, _ := http.NewRequest("PUT", "/api/notifications/42/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}

func TestMarkAsRead_NotFound(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("MarkAsRead", mock.Anything, "user-1", int64(42)).
		Return(repository.ErrNotificationNotFound)

	req, _ := http.NewRequest("PUT", "/api/notifications/42/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkAsRead_InvalidID(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	req, _ := http.NewRequest("PUT", "/api/notifications/abc/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "MarkAsRead")
}

func TestMarkAllAsRead_Success(t *testing.T) {
	svc := new(MockNotificationService)
	router := setupNotificationRouter(svc, "user-1")

	svc.On("MarkAllAsRead", mock.Anything, "user-1").Return(nil)

	req, _ := http.NewRequest("PUT", "/api/notifications/read-all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
