package notify

import (
	"context"
	"log/slog"

	"github.com/odyssey-erp/catalog/internal/shared"
)

// Enqueuer schedules a notification for background delivery.
type Enqueuer interface {
	EnqueueNotification(ctx context.Context, n shared.Notification) error
}

// QueueSink hands notifications to a background queue.
type QueueSink struct {
	queue  Enqueuer
	logger *slog.Logger
}

// NewQueueSink builds a QueueSink.
func NewQueueSink(queue Enqueuer, logger *slog.Logger) *QueueSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueueSink{queue: queue, logger: logger}
}

// Notify implements Sink.
func (s *QueueSink) Notify(ctx context.Context, n shared.Notification) {
	if s == nil || s.queue == nil {
		return
	}
	if err := s.queue.EnqueueNotification(context.WithoutCancel(ctx), n); err != nil {
		s.logger.Warn("enqueue notification", slog.String("kind", string(n.Kind)), slog.Any("error", err))
	}
}
