// Package notifications publishes persisted notifications into Redis so
// downstream delivery workers (push, email digests) can pick them up.
package notifications

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"jotter/internal/observability"
)

// Notifier provides helpers to publish notifications into Redis channels.
// A nil Redis client makes every method a no-op, so the API keeps working
// when Redis is degraded.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends a notification payload to a user's channel. The kind
// labels the published-notifications counter.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, kind string, payload string,
) error {
	if n.rdb == nil {
		return nil
	}
	if err := n.rdb.Publish(ctx, UserChannel(userID), payload).Err(); err != nil {
		return err
	}
	observability.NotificationsPublished.WithLabelValues(kind).Inc()
	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
