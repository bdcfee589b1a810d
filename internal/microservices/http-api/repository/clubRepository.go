package repository

import (
	"context"
	"errors"

	"collelink/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var (
	ErrClubNotFound  = errors.New("club not found")
	ErrAlreadyMember = errors.New("already a member of this club")
	ErrNotMember     = errors.New("not a member of this club")
)

type ClubRepository interface {
	Create(ctx context.Context, club *models.Club) error
	FindByID(ctx context.Context, id int64) (*models.Club, error)
	List(ctx context.Context, kind models.ClubKind) ([]models.Club, error)
	AddMember(ctx context.Context, clubID int64, userID string) error
	RemoveMember(ctx context.Context, clubID int64, userID string) error
	MemberIDs(ctx context.Context, clubID int64) ([]string, error)
	IsMember(ctx context.Context, clubID int64, userID string) (bool, error)
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, club *models.Club) error {
	return r.db.WithContext(ctx).Create(club).Error
}

func (r *clubRepository) FindByID(ctx context.Context, id int64) (*models.Club, error) {
	var club models.Club
	if err := r.db.WithContext(ctx).First(&club, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return &club, nil
}

// List returns clubs of the given kind, or every club/community when kind
// is empty. Newest first.
func (r *clubRepository) List(ctx context.Context, kind models.ClubKind) ([]models.Club, error) {
	var clubs []models.Club
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	err := q.Find(&clubs).Error
	return clubs, err
}

func (r *clubRepository) AddMember(ctx context.Context, clubID int64, userID string) error {
	member, err := r.IsMember(ctx, clubID, userID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}
	return r.db.WithContext(ctx).Create(&models.Membership{ClubID: clubID, UserID: userID}).Error
}

func (r *clubRepository) RemoveMember(ctx context.Context, clubID int64, userID string) error {
	result := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Delete(&models.Membership{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotMember
	}
	return nil
}

func (r *clubRepository) MemberIDs(ctx context.Context, clubID int64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("club_id = ?", clubID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *clubRepository) IsMember(ctx context.Context, clubID int64, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Count(&count).Error
	return count > 0, err
}
