package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"collelink/internal/feed"
	"collelink/internal/microservices/http-api/models"
)

const refetchTimeout = 5 * time.Second

// NotificationCenter is a per-session view over one user's notifications.
// It caches the last good snapshot, refetches whenever the feed reports a
// change, and never mutates the cache optimistically: mark operations go
// to the service first and the cache follows.
//
// The user is fixed at construction, so several centers for different users
// can coexist in one process; the websocket layer holds one per connection.
type NotificationCenter struct {
	userID string
	svc    NotificationService
	hub    *feed.Hub
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot []models.Notification

	// updates receives a signal after each successful background refetch;
	// it is closed when the center shuts down.
	updates chan time.Time

	watchOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}

	lifeMu sync.Mutex
	closed bool
	sub    *feed.Subscription
}

func NewNotificationCenter(userID string, svc NotificationService, hub *feed.Hub, logger *slog.Logger) *NotificationCenter {
	return &NotificationCenter{
		userID:  userID,
		svc:     svc,
		hub:     hub,
		logger:  logger,
		updates: make(chan time.Time, 1),
		done:    make(chan struct{}),
	}
}

// Load fetches the user's notifications (newest first) and caches them.
// The first successful call also subscribes to the feed so later inserts
// trigger background refetches. An empty user ID loads nothing and is not
// an error. On failure the previous snapshot is kept and the error returned,
// so callers can show stale data alongside an error indicator.
func (c *NotificationCenter) Load(ctx context.Context) ([]models.Notification, error) {
	if c.userID == "" {
		return []models.Notification{}, nil
	}

	notifications, err := c.svc.List(ctx, c.userID)
	if err != nil {
		return c.Notifications(), err
	}

	c.mu.Lock()
	c.snapshot = notifications
	c.mu.Unlock()

	c.watchOnce.Do(func() {
		c.lifeMu.Lock()
		defer c.lifeMu.Unlock()
		if c.closed {
			return
		}
		c.sub = c.hub.Subscribe(c.userID)
		go c.watch()
	})

	return c.Notifications(), nil
}

// Notifications returns a copy of the cached snapshot.
func (c *NotificationCenter) Notifications() []models.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Notification, len(c.snapshot))
	copy(out, c.snapshot)
	return out
}

// FilterByCategory applies the category filter to the cached snapshot,
// preserving the newest-first order.
func (c *NotificationCenter) FilterByCategory(category models.Category) []models.Notification {
	return models.FilterByCategory(c.Notifications(), category)
}

// UnreadCounts computes per-category unread badges from the cached snapshot.
func (c *NotificationCenter) UnreadCounts() map[models.Category]int {
	return models.UnreadCounts(c.Notifications())
}

// Updates exposes the refetch signal: one receive per snapshot refresh, and
// a close when the center closes. Signals coalesce like the feed itself, so
// a slow consumer sees at most one pending update.
func (c *NotificationCenter) Updates() <-chan time.Time {
	return c.updates
}

// MarkAsRead marks one notification read, then refreshes the snapshot.
func (c *NotificationCenter) MarkAsRead(ctx context.Context, notificationID int64) error {
	if err := c.svc.MarkAsRead(ctx, c.userID, notificationID); err != nil {
		return err
	}
	_, err := c.Load(ctx)
	return err
}

// MarkAllAsRead marks every unread notification read, then refreshes.
func (c *NotificationCenter) MarkAllAsRead(ctx context.Context) error {
	if err := c.svc.MarkAllAsRead(ctx, c.userID); err != nil {
		return err
	}
	_, err := c.Load(ctx)
	return err
}

// Close releases the feed subscription. Safe to call from any exit path
// and any number of times; a Load after Close will not resubscribe.
func (c *NotificationCenter) Close() {
	c.closeOnce.Do(func() {
		c.lifeMu.Lock()
		c.closed = true
		sub := c.sub
		c.lifeMu.Unlock()

		close(c.done)
		if sub != nil {
			sub.Close()
		} else {
			// watch never started, so nothing else will close updates
			close(c.updates)
		}
	})
}

// watch refetches on every feed event until Close. A failed refetch keeps
// the old snapshot; the next event tries again.
func (c *NotificationCenter) watch() {
	defer close(c.updates)
	for {
		select {
		case <-c.done:
			return
		case event, ok := <-c.sub.C:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), refetchTimeout)
			notifications, err := c.svc.List(ctx, c.userID)
			cancel()
			if err != nil {
				c.logger.Error("notification refetch failed, keeping cached snapshot",
					"user_id", c.userID, "error", err)
				continue
			}
			c.mu.Lock()
			c.snapshot = notifications
			c.mu.Unlock()

			select {
			case c.updates <- event.At:
			default:
			}
		}
	}
}
