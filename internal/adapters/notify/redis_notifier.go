package notify

import (
	"context"
	"encoding/json"
	"fmt"

	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/redis/go-redis/v9"
)

// alertQueueKey is the Redis list the delivery worker consumes.
const alertQueueKey = "alerts:zero_margin"

// RedisNotifier implements the MarginNotifier port by pushing alerts onto a
// Redis list.
type RedisNotifier struct {
	client *redis.Client
}

// NewRedisNotifier creates a Redis-backed notifier.
func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

var _ portssvc.MarginNotifier = (*RedisNotifier)(nil)

func (n *RedisNotifier) NotifyZeroMargin(ctx context.Context, notification portssvc.ZeroMarginNotification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal zero-margin alert: %w", err)
	}
	if err := n.client.RPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue zero-margin alert: %w", err)
	}
	return nil
}
