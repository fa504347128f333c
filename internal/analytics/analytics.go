// Package analytics records product events. Events are best-effort:
// failures are logged, never surfaced to the request path.
package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/pastecn/pastecn/internal/logging"
)

// Tracker records a named event with optional properties.
type Tracker interface {
	Track(ctx context.Context, event string, props map[string]any)
}

// Noop discards every event.
type Noop struct{}

func (Noop) Track(context.Context, string, map[string]any) {}

// Log emits each event as a structured log line with a unique event id.
type Log struct {
	log logging.Logger
}

// NewLog builds a Tracker writing to log.
func NewLog(log logging.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Track(ctx context.Context, event string, props map[string]any) {
	args := []any{"event", event, "event_id", uuid.NewString()}
	for k, v := range props {
		args = append(args, k, v)
	}
	l.log.Info(ctx, "analytics event", args...)
}
