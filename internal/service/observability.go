package service

import (
	"context"
	"log/slog"
	"time"
)

// CallEvent captures one accessor call: which operation ran, on what, how
// long the simulated round trip took and how it ended.
type CallEvent struct {
	RequestID string
	Op        string
	Kind      string
	ID        string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// CallObserver receives accessor call events.
type CallObserver interface {
	ObserveCall(ctx context.Context, event CallEvent)
}

// NoopCallObserver ignores all events.
type NoopCallObserver struct{}

func (NoopCallObserver) ObserveCall(context.Context, CallEvent) {}

type logCallObserver struct {
	logger *slog.Logger
}

// NewLogCallObserver writes accessor call events to logger.
func NewLogCallObserver(logger *slog.Logger) CallObserver {
	if logger == nil {
		return NoopCallObserver{}
	}
	return &logCallObserver{logger: logger}
}

func (o *logCallObserver) ObserveCall(ctx context.Context, event CallEvent) {
	attrs := make([]any, 0, 12+len(event.Fields)*2)
	attrs = append(attrs,
		"request_id", event.RequestID,
		"op", event.Op,
		"kind", event.Kind,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	if event.ID != "" {
		attrs = append(attrs, "id", event.ID)
	}
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.WarnContext(ctx, "accessor_call", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "accessor_call", attrs...)
}
