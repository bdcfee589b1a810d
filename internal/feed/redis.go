package feed

import (
	"context"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notify:user:"

// Bridge carries feed events across instances through redis pub/sub.
// Publish pushes to redis; Run pumps redis messages into the local hub, so
// a notification inserted on any instance wakes subscribers everywhere.
type Bridge struct {
	client *redis.Client
	hub    *Hub
	logger *slog.Logger
}

func NewBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *Bridge {
	return &Bridge{client: client, hub: hub, logger: logger}
}

// Publish announces a change to the user's feed. Without a redis client the
// bridge degrades to local-only delivery.
func (b *Bridge) Publish(ctx context.Context, userID string) {
	if b.client == nil {
		b.hub.Publish(userID)
		return
	}
	if err := b.client.Publish(ctx, channelPrefix+userID, "changed").Err(); err != nil {
		b.logger.Error("feed publish failed, delivering locally", "user_id", userID, "error", err)
		b.hub.Publish(userID)
	}
}

// Run subscribes to every user channel and forwards messages to the hub
// until the context is cancelled. Callers run it in its own goroutine.
func (b *Bridge) Run(ctx context.Context) error {
	if b.client == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	pubsub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID := strings.TrimPrefix(msg.Channel, channelPrefix)
			b.hub.Publish(userID)
		}
	}
}
