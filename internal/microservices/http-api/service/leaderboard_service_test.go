package service

import (
	"context"
	"errors"
	"testing"

	"collelink/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCertificateRepository mocks the CertificateRepository interface
type MockCertificateRepository struct {
	mock.Mock
}

func (m *MockCertificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	args := m.Called(ctx, certificate)
	return args.Error(0)
}

func (m *MockCertificateRepository) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Certificate), args.Error(1)
}

func (m *MockCertificateRepository) PointTotals(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

func TestLeaderboardService_Award_NotifiesAchievement(t *testing.T) {
	repo := new(MockCertificateRepository)
	notifications := newFakeNotificationService()
	// nil redis client: the service runs without the ranking cache
	svc := NewLeaderboardService(repo, nil, notifications, testLogger())

	certificate := &models.Certificate{ID: 5, UserID: "user-1", Title: "Hackathon winner", Points: 50}
	repo.On("Create", mock.Anything, certificate).Return(nil)

	require.NoError(t, svc.Award(context.Background(), certificate))

	received, err := notifications.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, models.NotificationAchievement, received[0].Type)
	require.NotNil(t, received[0].RelatedID)
	assert.Equal(t, int64(5), *received[0].RelatedID)

	repo.AssertExpectations(t)
}

func TestLeaderboardService_Award_StoreFailureSkipsNotification(t *testing.T) {
	repo := new(MockCertificateRepository)
	notifications := newFakeNotificationService()
	svc := NewLeaderboardService(repo, nil, notifications, testLogger())

	certificate := &models.Certificate{UserID: "user-1", Points: 10}
	repo.On("Create", mock.Anything, certificate).Return(errors.New("insert failed"))

	assert.Error(t, svc.Award(context.Background(), certificate))

	received, _ := notifications.List(context.Background(), "user-1")
	assert.Empty(t, received)
}

func TestLeaderboardService_Top_FallsBackToDatabase(t *testing.T) {
	repo := new(MockCertificateRepository)
	svc := NewLeaderboardService(repo, nil, newFakeNotificationService(), testLogger())

	expected := []models.LeaderboardEntry{
		{Rank: 1, UserID: "user-2", Points: 120},
		{Rank: 2, UserID: "user-1", Points: 80},
	}
	repo.On("PointTotals", mock.Anything, 5).Return(expected, nil)

	entries, err := svc.Top(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, expected, entries)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_Top_DefaultsLimit(t *testing.T) {
	repo := new(MockCertificateRepository)
	svc := NewLeaderboardService(repo, nil, newFakeNotificationService(), testLogger())

	repo.On("PointTotals", mock.Anything, 10).Return([]models.LeaderboardEntry{}, nil)

	_, err := svc.Top(context.Background(), 0)

	assert.NoError(t, err)
	repo.AssertCalled(t, "PointTotals", mock.Anything, 10)
}

func TestLeaderboardService_Certificates(t *testing.T) {
	repo := new(MockCertificateRepository)
	svc := NewLeaderboardService(repo, nil, newFakeNotificationService(), testLogger())

	expected := []models.Certificate{{ID: 1, UserID: "user-1", Points: 30}}
	repo.On("ListByUser", mock.Anything, "user-1").Return(expected, nil)

	certificates, err := svc.Certificates(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, expected, certificates)
}
