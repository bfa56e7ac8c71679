package layout

import (
	"context"

	"go.uber.org/zap"
)

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}

type noopConfigureHook struct{}

func (noopConfigureHook) WidgetConfigure(context.Context, ConfigureEvent) {}

// LogNotifier writes notifications to a zap logger. Useful for CLI hosts that
// have no toast surface.
type LogNotifier struct {
	Logger *zap.Logger
}

// Notify logs the notification at a level matching its variant.
func (n LogNotifier) Notify(_ context.Context, note Notification) {
	logger := n.Logger
	if logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("layout_id", note.LayoutID),
		zap.String("title", note.Title),
	}
	switch note.Variant {
	case VariantError:
		logger.Error(note.Message, fields...)
	case VariantWarning:
		logger.Warn(note.Message, fields...)
	default:
		logger.Info(note.Message, fields...)
	}
}

// MultiNotifier fans a notification out to several notifiers.
type MultiNotifier []Notifier

// Notify forwards to every non-nil notifier.
func (m MultiNotifier) Notify(ctx context.Context, note Notification) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, note)
		}
	}
}
