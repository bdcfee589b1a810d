package repository

import (
	"context"

	"collelink/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CertificateRepository interface {
	Create(ctx context.Context, certificate *models.Certificate) error
	ListByUser(ctx context.Context, userID string) ([]models.Certificate, error)
	PointTotals(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

type certificateRepository struct {
	db *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

func (r *certificateRepository) Create(ctx context.Context, certificate *models.Certificate) error {
	return r.db.WithContext(ctx).Create(certificate).Error
}

func (r *certificateRepository) ListByUser(ctx context.Context, userID string) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&certificates).Error
	return certificates, err
}

// PointTotals aggregates certificate points per user, highest first. Ranks
// are assigned by position; ties keep insertion order from the database.
func (r *certificateRepository) PointTotals(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Select("user_id, SUM(points) AS points").
		Group("user_id").
		Order("points DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
