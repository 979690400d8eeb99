// Package watch re-runs the copy action whenever the active document of a vault changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/graphpaths/internal/workspace"
)

const (
	// DefaultDebounce is the quiet period applied when Options.Debounce is zero.
	DefaultDebounce = 300 * time.Millisecond

	errorCreateWatcherFormat = "create watcher: %w"
	errorWatchDirectoryFmt   = "watch %s: %w"

	watchingMessage       = "watching workspace"
	stoppingMessage       = "stopping watcher"
	watcherErrorMessage   = "watcher error"
	activeDocumentMessage = "active document changed"
	runFailedMessage      = "run failed"
	providerFailedMessage = "cannot determine active document"
	debouncerPanicMessage = "debouncer callback panicked"

	fieldPath     = "path"
	fieldDocument = "document"
)

// RunFunc handles one active document.
type RunFunc func(ctx context.Context, document string) error

// Options configures the watcher.
type Options struct {
	// WorkspaceFile is the file whose changes signal a new active document.
	WorkspaceFile string
	// Provider reports the active document after each change.
	Provider workspace.Provider
	// Debounce is the quiet period before the active document is read.
	Debounce time.Duration
	Logger   *zap.Logger
}

// Run processes the current active document, then every distinct active
// document that follows, until ctx is cancelled or SIGINT/SIGTERM arrives.
// Failures of individual runs are logged and do not stop the loop.
func Run(ctx context.Context, options Options, run RunFunc) error {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := options.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return fmt.Errorf(errorCreateWatcherFormat, watcherError)
	}
	defer watcher.Close()

	watchedDirectory := filepath.Dir(options.WorkspaceFile)
	if addError := watcher.Add(watchedDirectory); addError != nil {
		return fmt.Errorf(errorWatchDirectoryFmt, watchedDirectory, addError)
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(watchingMessage, zap.String(fieldPath, options.WorkspaceFile))

	group, groupCtx := errgroup.WithContext(signalCtx)
	triggers := make(chan string, 1)
	debouncer := NewDebouncer(debounce, logger, func(path string) {
		select {
		case triggers <- path:
		default:
		}
	})
	defer debouncer.Stop()

	group.Go(func() error {
		return produce(groupCtx, watcher, options.WorkspaceFile, debouncer, logger)
	})

	group.Go(func() error {
		tracker := &changeTracker{}
		process(groupCtx, options.Provider, tracker, run, logger)
		for {
			select {
			case <-groupCtx.Done():
				return groupCtx.Err()
			case <-triggers:
				process(groupCtx, options.Provider, tracker, run, logger)
			}
		}
	})

	waitError := group.Wait()
	logger.Info(stoppingMessage)
	if waitError != nil && !errors.Is(waitError, context.Canceled) {
		return waitError
	}
	return nil
}

func produce(ctx context.Context, watcher *fsnotify.Watcher, workspaceFile string, debouncer *Debouncer, logger *zap.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isRelevant(event, workspaceFile) {
				debouncer.Trigger(event.Name)
			}
		case watchError, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error(watcherErrorMessage, zap.Error(watchError))
		}
	}
}

func process(ctx context.Context, provider workspace.Provider, tracker *changeTracker, run RunFunc, logger *zap.Logger) {
	document, documentError := provider.ActiveDocument()
	if documentError != nil {
		tracker.Reset()
		if !errors.Is(documentError, workspace.ErrNoActiveDocument) {
			logger.Warn(providerFailedMessage, zap.Error(documentError))
		}
		return
	}
	if !tracker.Changed(document) {
		return
	}
	logger.Debug(activeDocumentMessage, zap.String(fieldDocument, document))
	if runError := run(ctx, document); runError != nil {
		logger.Error(runFailedMessage, zap.String(fieldDocument, document), zap.Error(runError))
	}
}

// isRelevant keeps writes, creations and renames of the workspace file.
// Atomic saves surface as a create of the final name.
func isRelevant(event fsnotify.Event, workspaceFile string) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	return filepath.Base(event.Name) == filepath.Base(workspaceFile)
}

// changeTracker remembers the last processed document.
type changeTracker struct {
	lastDocument string
}

// Changed records document and reports whether it differs from the previous one.
func (tracker *changeTracker) Changed(document string) bool {
	if document == tracker.lastDocument {
		return false
	}
	tracker.lastDocument = document
	return true
}

// Reset forgets the last document so that reopening it triggers a run.
func (tracker *changeTracker) Reset() {
	tracker.lastDocument = ""
}
