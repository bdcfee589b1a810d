package service

import (
	"context"
	"fmt"
	"log/slog"

	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:points"

type LeaderboardService interface {
	// Award stores the certificate, bumps the user's ranking score and
	// drops an achievement notification.
	Award(ctx context.Context, certificate *models.Certificate) error
	Certificates(ctx context.Context, userID string) ([]models.Certificate, error)
	// Top returns the highest-scoring users. It prefers the redis sorted
	// set and falls back to a Postgres aggregation when redis is down,
	// mirroring the stale-but-available read policy of the notification core.
	Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type leaderboardService struct {
	repo          repository.CertificateRepository
	redis         *redis.Client // nil disables the ranking cache
	notifications NotificationService
	logger        *slog.Logger
}

func NewLeaderboardService(
	repo repository.CertificateRepository,
	redisClient *redis.Client,
	notifications NotificationService,
	logger *slog.Logger,
) LeaderboardService {
	return &leaderboardService{repo: repo, redis: redisClient, notifications: notifications, logger: logger}
}

func (s *leaderboardService) Award(ctx context.Context, certificate *models.Certificate) error {
	if err := s.repo.Create(ctx, certificate); err != nil {
		return err
	}

	if s.redis != nil {
		if err := s.redis.ZIncrBy(ctx, leaderboardKey, float64(certificate.Points), certificate.UserID).Err(); err != nil {
			// Postgres stays the source of truth; the next Top call falls back
			s.logger.Error("failed to update leaderboard cache", "user_id", certificate.UserID, "error", err)
		}
	}

	notification := &models.Notification{
		UserID:    certificate.UserID,
		Title:     "Certificate awarded",
		Content:   fmt.Sprintf("%s (+%d points)", certificate.Title, certificate.Points),
		Type:      models.NotificationAchievement,
		RelatedID: &certificate.ID,
	}
	if err := s.notifications.Notify(ctx, notification); err != nil {
		s.logger.Error("failed to send achievement notification",
			"certificate_id", certificate.ID, "error", err)
	}
	return nil
}

func (s *leaderboardService) Certificates(ctx context.Context, userID string) ([]models.Certificate, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.redis != nil {
		scores, err := s.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
		if err == nil && len(scores) > 0 {
			entries := make([]models.LeaderboardEntry, 0, len(scores))
			for i, z := range scores {
				member, ok := z.Member.(string)
				if !ok {
					continue
				}
				entries = append(entries, models.LeaderboardEntry{
					Rank:   i + 1,
					UserID: member,
					Points: int(z.Score),
				})
			}
			return entries, nil
		}
		if err != nil {
			s.logger.Error("leaderboard cache read failed, falling back to database", "error", err)
		}
	}

	return s.repo.PointTotals(ctx, limit)
}
