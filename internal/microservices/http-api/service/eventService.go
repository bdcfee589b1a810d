package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"collelink/internal/microservices/http-api/models"
	"collelink/internal/microservices/http-api/repository"
)

var ErrNotOrganizer = errors.New("only the organizer may view attendees")

type EventService interface {
	Create(ctx context.Context, event *models.Event) error
	Get(ctx context.Context, id int64) (*models.Event, error)
	ListUpcoming(ctx context.Context) ([]models.Event, error)
	Register(ctx context.Context, eventID int64, userID string) error
	Unregister(ctx context.Context, eventID int64, userID string) error
	Attendees(ctx context.Context, eventID int64, requesterID string) ([]models.Registration, error)
	// SendReminders notifies registered users of events starting within the
	// window, at most once per registration. Run periodically by the cron job.
	SendReminders(ctx context.Context, window time.Duration) (int, error)
}

type eventService struct {
	repo          repository.EventRepository
	clubs         repository.ClubRepository
	notifications NotificationService
	logger        *slog.Logger
}

func NewEventService(
	repo repository.EventRepository,
	clubs repository.ClubRepository,
	notifications NotificationService,
	logger *slog.Logger,
) EventService {
	return &eventService{repo: repo, clubs: clubs, notifications: notifications, logger: logger}
}

// Create stores the event and announces it to the club's members.
func (s *eventService) Create(ctx context.Context, event *models.Event) error {
	if _, err := s.clubs.FindByID(ctx, event.ClubID); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return err
	}

	memberIDs, err := s.clubs.MemberIDs(ctx, event.ClubID)
	if err != nil {
		s.logger.Error("failed to load club members for event announcement",
			"event_id", event.ID, "error", err)
		return nil
	}
	for _, memberID := range memberIDs {
		if memberID == event.OrganizerID {
			continue
		}
		notification := &models.Notification{
			UserID:    memberID,
			Title:     "New event",
			Content:   fmt.Sprintf("%s on %s", event.Title, event.StartsAt.Format("Jan 2 15:04")),
			Type:      models.NotificationEvent,
			SenderID:  &event.OrganizerID,
			RelatedID: &event.ID,
		}
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to announce event", "event_id", event.ID,
				"user_id", memberID, "error", err)
		}
	}
	return nil
}

func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	return s.repo.ListUpcoming(ctx, time.Now())
}

// Register books a seat and notifies the organizer.
func (s *eventService) Register(ctx context.Context, eventID int64, userID string) error {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.repo.Register(ctx, eventID, userID); err != nil {
		return err
	}

	if event.OrganizerID != userID {
		notification := &models.Notification{
			UserID:    event.OrganizerID,
			Title:     "New registration",
			Content:   fmt.Sprintf("Someone registered for %s", event.Title),
			Type:      models.NotificationEvent,
			SenderID:  &userID,
			RelatedID: &event.ID,
		}
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to notify organizer", "event_id", eventID, "error", err)
		}
	}
	return nil
}

func (s *eventService) Unregister(ctx context.Context, eventID int64, userID string) error {
	return s.repo.Unregister(ctx, eventID, userID)
}

func (s *eventService) Attendees(ctx context.Context, eventID int64, requesterID string) ([]models.Registration, error) {
	event, err := s.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != requesterID {
		return nil, ErrNotOrganizer
	}
	return s.repo.Attendees(ctx, eventID)
}

func (s *eventService) SendReminders(ctx context.Context, window time.Duration) (int, error) {
	now := time.Now()
	due, err := s.repo.DueForReminder(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, registration := range due {
		if registration.Event == nil {
			continue
		}
		notification := &models.Notification{
			UserID:    registration.UserID,
			Title:     "Event reminder",
			Content:   fmt.Sprintf("%s starts at %s", registration.Event.Title, registration.Event.StartsAt.Format("Jan 2 15:04")),
			Type:      models.NotificationEvent,
			RelatedID: &registration.EventID,
		}
		if err := s.notifications.Notify(ctx, notification); err != nil {
			s.logger.Error("failed to send event reminder",
				"registration_id", registration.ID, "error", err)
			continue
		}
		if err := s.repo.MarkReminded(ctx, registration.ID); err != nil {
			s.logger.Error("failed to mark registration reminded",
				"registration_id", registration.ID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
