package service

import (
	"context"
	"fmt"
	"log/slog"

	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"
)

type ClubService interface {
	Create(ctx context.Context, club *models.Club) error
	Get(ctx context.Context, id int64) (*models.Club, error)
	List(ctx context.Context, kind models.ClubKind) ([]models.Club, error)
	Join(ctx context.Context, clubID int64, userID string) error
	Leave(ctx context.Context, clubID int64, userID string) error
	MemberIDs(ctx context.Context, clubID int64) ([]string, error)
}

type clubService struct {
	repo          repository.ClubRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewClubService(repo repository.ClubRepository, notifications NotificationService, logger *slog.Logger) ClubService {
	return &clubService{repo: repo, notifications: notifications, logger: logger}
}

func (s *clubService) Create(ctx context.Context, club *models.Club) error {
	if club.Kind == "" {
		club.Kind = models.KindClub
	}
	return s.repo.Create(ctx, club)
}

func (s *clubService) Get(ctx context.Context, id int64) (*models.Club, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *clubService) List(ctx context.Context, kind models.ClubKind) ([]models.Club, error) {
	return s.repo.List(ctx, kind)
}

// Join adds the user and notifies the owner with a club or community
// notification depending on the club's kind. Membership is the operation;
// a failed owner notification is logged, not surfaced.
func (s *clubService) Join(ctx context.Context, clubID int64, userID string) error {
	club, err := s.repo.FindByID(ctx, clubID)
	if err != nil {
		return err
	}

	if err := s.repo.AddMember(ctx, clubID, userID); err != nil {
		return err
	}

	if club.OwnerID != userID {
		notification := &models.Notification{
			UserID:    club.OwnerID,
			Title:     "New member",
			Content:   fmt.Sprintf("Someone joined %s", club.Name),
			Type:      club.NotificationType(),
			SenderID:  &userID,
			RelatedID: &club.ID,
		}
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to notify club owner", "club_id", clubID, "error", err)
		}
	}
	return nil
}

func (s *clubService) Leave(ctx context.Context, clubID int64, userID string) error {
	return s.repo.RemoveMember(ctx, clubID, userID)
}

func (s *clubService) MemberIDs(ctx context.Context, clubID int64) ([]string, error) {
	return s.repo.MemberIDs(ctx, clubID)
}
