package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/catalog/internal/shared"
)

// DefaultChannel is the pub/sub channel notifications are published on.
const DefaultChannel = "catalog.notifications"

const publishTimeout = 2 * time.Second

// RedisSink publishes notifications as JSON on a Redis channel.
type RedisSink struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisSink builds a RedisSink.
func NewRedisSink(client *redis.Client, channel string, logger *slog.Logger) *RedisSink {
	if channel == "" {
		channel = DefaultChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisSink{client: client, channel: channel, logger: logger}
}

// Notify implements Sink.
func (s *RedisSink) Notify(ctx context.Context, n shared.Notification) {
	if s == nil || s.client == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		s.logger.Warn("encode notification", slog.Any("error", err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		s.logger.Warn("publish notification", slog.String("channel", s.channel), slog.Any("error", err))
	}
}
