// Package notify delivers zero-margin alerts. The sink is configurable: a
// structured log line for development and a Redis queue entry for
// deployments where a worker picks alerts up for email delivery.
package notify

import (
	"context"
	"log/slog"

	portssvc "github.com/fakturly/fakturly_backend/internal/core/ports/services"
	"github.com/fakturly/fakturly_backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// NewMarginNotifier selects the notifier implementation from configuration:
// "log", "redis" or "both".
func NewMarginNotifier(cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) portssvc.MarginNotifier {
	switch {
	case cfg.NotifySink == "redis" && redisClient != nil:
		return NewRedisNotifier(redisClient)
	case cfg.NotifySink == "both" && redisClient != nil:
		return NewCompositeNotifier(NewLogNotifier(logger), NewRedisNotifier(redisClient))
	default:
		return NewLogNotifier(logger)
	}
}

// CompositeNotifier fans an alert out to every configured sink. Delivery is
// attempted on all sinks even when one fails; the first error is returned.
type CompositeNotifier struct {
	sinks []portssvc.MarginNotifier
}

// NewCompositeNotifier creates a notifier delivering to all given sinks.
func NewCompositeNotifier(sinks ...portssvc.MarginNotifier) *CompositeNotifier {
	return &CompositeNotifier{sinks: sinks}
}

var _ portssvc.MarginNotifier = (*CompositeNotifier)(nil)

func (n *CompositeNotifier) NotifyZeroMargin(ctx context.Context, notification portssvc.ZeroMarginNotification) error {
	var firstErr error
	for _, sink := range n.sinks {
		if err := sink.NotifyZeroMargin(ctx, notification); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

var _ portssvc.MarginNotifier = (*LogNotifier)(nil)

func (n *LogNotifier) NotifyZeroMargin(ctx context.Context, notification portssvc.ZeroMarginNotification) error {
	n.logger.Warn("Project margin dropped to zero or below",
		slog.String("tenant_id", notification.TenantID),
		slog.String("project_id", notification.ProjectID),
		slog.String("project_name", notification.ProjectName),
		slog.String("email", notification.Email),
		slog.String("margin_percent", notification.MarginPercent.String()),
	)
	return nil
}
