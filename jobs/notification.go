package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/catalog/internal/jobs"
	"github.com/odyssey-erp/catalog/internal/notify"
	"github.com/odyssey-erp/catalog/internal/shared"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// NotificationJob delivers queued notifications to a sink.
type NotificationJob struct {
	Sink    notify.Sink
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewNotificationJob wires dependencies for the delivery handler.
func NewNotificationJob(sink notify.Sink, logger *slog.Logger, metrics *jobmetrics.Metrics) *NotificationJob {
	return &NotificationJob{Sink: sink, Logger: logger, Metrics: metrics}
}

// Handle processes TaskTypeNotify tasks.
func (j *NotificationJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics().Track(TaskTypeNotify)
	var n shared.Notification
	if err := json.Unmarshal(t.Payload(), &n); err != nil {
		j.logger().Warn("decode notification payload", slog.Any("error", err))
		return tracker.End(fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry))
	}
	if n.Message == "" {
		return tracker.End(fmt.Errorf("empty notification: %w", asynq.SkipRetry))
	}
	if j.Sink != nil {
		j.Sink.Notify(ctx, n)
	}
	return tracker.End(nil)
}

func (j *NotificationJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskTypeNotify))
	}
	return slog.Default().With(slog.String("job", TaskTypeNotify))
}

func (j *NotificationJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
