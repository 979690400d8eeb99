// Package notify delivers short user-facing notices.
package notify

import (
	"go.uber.org/zap"
)

// Notifier shows a message to the user. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string)
}

// LoggerNotifier writes notices through a zap logger.
type LoggerNotifier struct {
	logger *zap.Logger
}

// NewLoggerNotifier constructs a Notifier backed by logger. A nil logger discards notices.
func NewLoggerNotifier(logger *zap.Logger) *LoggerNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggerNotifier{logger: logger}
}

// Notify logs message at info level.
func (notifier *LoggerNotifier) Notify(message string) {
	notifier.logger.Info(message)
}

var _ Notifier = (*LoggerNotifier)(nil)
