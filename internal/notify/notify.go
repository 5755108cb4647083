// Package notify delivers operator notifications. Every sink is
// fire-and-forget: delivery problems are logged and never returned.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/odyssey-erp/catalog/internal/shared"
)

// Sink receives notifications.
type Sink interface {
	Notify(ctx context.Context, n shared.Notification)
}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink builds a LogSink.
func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

// Notify implements Sink.
func (s *LogSink) Notify(ctx context.Context, n shared.Notification) {
	level := slog.LevelInfo
	if n.Kind == shared.NotifyError {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "notification", slog.String("kind", string(n.Kind)), slog.String("message", n.Message))
}

// Fanout forwards each notification to every sink in order.
type Fanout []Sink

// Notify implements Sink.
func (f Fanout) Notify(ctx context.Context, n shared.Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}

// DefaultInboxSize bounds an Inbox created with a non-positive limit.
const DefaultInboxSize = 32

// Inbox buffers notifications until a reader drains them. When full, the
// oldest entry is dropped.
type Inbox struct {
	mu    sync.Mutex
	items []shared.Notification
	limit int
}

// NewInbox creates an Inbox holding at most limit notifications.
func NewInbox(limit int) *Inbox {
	if limit <= 0 {
		limit = DefaultInboxSize
	}
	return &Inbox{limit: limit}
}

// Notify implements Sink.
func (b *Inbox) Notify(_ context.Context, n shared.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == b.limit {
		b.items = b.items[1:]
	}
	b.items = append(b.items, n)
}

// Drain returns the buffered notifications oldest first and empties the inbox.
func (b *Inbox) Drain() []shared.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items
	b.items = nil
	if out == nil {
		return []shared.Notification{}
	}
	return out
}
