package watch

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Debouncer coalesces bursts of events into a single callback invocation
// carrying the path of the last event.
type Debouncer struct {
	interval time.Duration
	logger   *zap.Logger
	mutex    sync.Mutex
	timer    *time.Timer
	callback func(path string)
	lastPath string
}

// NewDebouncer creates a debouncer that waits for interval of quiet before firing callback.
func NewDebouncer(interval time.Duration, logger *zap.Logger, callback func(path string)) *Debouncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Debouncer{
		interval: interval,
		logger:   logger,
		callback: callback,
	}
}

// Trigger records an event for path and restarts the quiet period.
func (debouncer *Debouncer) Trigger(path string) {
	debouncer.mutex.Lock()
	defer debouncer.mutex.Unlock()

	debouncer.lastPath = path
	if debouncer.timer != nil {
		debouncer.timer.Stop()
	}
	debouncer.timer = time.AfterFunc(debouncer.interval, debouncer.fire)
}

// Stop cancels any pending callback.
func (debouncer *Debouncer) Stop() {
	debouncer.mutex.Lock()
	defer debouncer.mutex.Unlock()

	if debouncer.timer != nil {
		debouncer.timer.Stop()
		debouncer.timer = nil
	}
}

func (debouncer *Debouncer) fire() {
	defer func() {
		if recovered := recover(); recovered != nil {
			debouncer.logger.Error(debouncerPanicMessage, zap.Any("error", recovered))
		}
	}()
	debouncer.mutex.Lock()
	path := debouncer.lastPath
	debouncer.mutex.Unlock()
	debouncer.callback(path)
}
