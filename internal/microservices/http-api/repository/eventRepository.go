package repository

import (
	"context"
	"errors"
	"time"

	"collelink/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrAlreadyRegistered = errors.New("already registered for this event")
	ErrEventFull         = errors.New("event is at capacity")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id int64) (*models.Event, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]models.Event, error)
	Register(ctx context.Context, eventID int64, userID string) error
	Unregister(ctx context.Context, eventID int64, userID string) error
	Attendees(ctx context.Context, eventID int64) ([]models.Registration, error)
	DueForReminder(ctx context.Context, from, until time.Time) ([]models.Registration, error)
	MarkReminded(ctx context.Context, registrationID int64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, from time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("starts_at >= ?", from).
		Order("starts_at ASC").
		Find(&events).Error
	return events, err
}

// Register inserts a registration, enforcing capacity inside a transaction
// so two concurrent registrations cannot both take the last seat.
func (r *eventRepository) Register(ctx context.Context, eventID int64, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		if event.Capacity > 0 {
			var taken int64
			if err := tx.Model(&models.Registration{}).
				Where("event_id = ?", eventID).
				Count(&taken).Error; err != nil {
				return err
			}
			if taken >= int64(event.Capacity) {
				return ErrEventFull
			}
		}

		return tx.Create(&models.Registration{EventID: eventID, UserID: userID}).Error
	})
}

// Unregister is idempotent: removing a registration that does not exist
// succeeds without touching any rows.
func (r *eventRepository) Unregister(ctx context.Context, eventID int64, userID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&models.Registration{}).Error
}

func (r *eventRepository) Attendees(ctx context.Context, eventID int64) ([]models.Registration, error) {
	var registrations []models.Registration
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error
	return registrations, err
}

// DueForReminder returns un-reminded registrations for events starting in
// the [from, until) window, with the event preloaded for message text.
func (r *eventRepository) DueForReminder(ctx context.Context, from, until time.Time) ([]models.Registration, error) {
	var registrations []models.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.reminded = false AND events.starts_at >= ? AND events.starts_at < ?", from, until).
		Find(&registrations).Error
	return registrations, err
}

func (r *eventRepository) MarkReminded(ctx context.Context, registrationID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("id = ?", registrationID).
		Update("reminded", true).Error
}
