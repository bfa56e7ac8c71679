package commands

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry allows commands to emit structured events about layout changes.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry records command events as zap debug entries.
type LogTelemetry struct {
	Logger *zap.Logger
}

// Record logs the event with its payload flattened into fields.
func (t LogTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(payload))
	for k, v := range payload {
		fields = append(fields, zap.Any(k, v))
	}
	t.Logger.Debug(event, fields...)
}
