package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ofiq_backend/shutdown"

	"go.uber.org/zap"
)

// imageExtensions are the file extensions watch mode will pick up,
// matching the formats the image decoder accepts.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// settleWindow is how long a file must sit unmodified before it is
// assessed. Files still being copied into the watch directory change
// their modtime on every write.
const settleWindow = 1 * time.Second

// Watcher polls a directory for image files and feeds each new or changed
// one through the assessment pipeline.
type Watcher struct {
	app      *app
	inputDir string
	done     chan struct{}
	seen     map[string]time.Time
	seenMux  sync.Mutex
}

// NewWatcher creates a Watcher over the given directory.
func NewWatcher(a *app, inputDir string) *Watcher {
	return &Watcher{
		app:      a,
		inputDir: inputDir,
		done:     make(chan struct{}),
		seen:     make(map[string]time.Time),
	}
}

// Done returns a channel that's closed when the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Start runs the poll loop until the context is cancelled. The first scan
// happens immediately so a pre-populated directory is drained without
// waiting for the first tick.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.done)

	w.scanOnce(ctx)

	ticker := time.NewTicker(w.app.cfg.Watch.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.app.logger.Info("Stopping watcher due to context cancellation")
			return
		case <-ticker.C:
			w.scanOnce(ctx)
		}
	}
}

// scanOnce lists the watch directory and assesses every relevant file.
// Listing errors are logged and retried on the next tick.
func (w *Watcher) scanOnce(ctx context.Context) {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		w.app.logger.Error("Failed to read watch directory",
			zap.String("dir", w.inputDir),
			zap.Error(err))
		return
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return
		}
		if entry.IsDir() || !isImageFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		path := filepath.Join(w.inputDir, entry.Name())
		if !w.isRelevant(path, info.ModTime()) {
			continue
		}

		err = w.app.manager.WrapOperation(ctx, "assess-image", func(ctx context.Context) error {
			return w.app.assessFile(ctx, path)
		})
		if err == shutdown.ErrTrackerClosed {
			return
		}
		if err != nil {
			// assessFile has already reported and recorded the failure.
			w.app.logger.Warn("Assessment failed in watch mode",
				zap.String("image", path),
				zap.Error(err))
		}
	}
}

// isRelevant reports whether a file needs processing: it must be new or
// changed since the last scan, and its modtime must have settled.
func (w *Watcher) isRelevant(path string, modTime time.Time) bool {
	if time.Since(modTime) < settleWindow {
		return false
	}

	w.seenMux.Lock()
	defer w.seenMux.Unlock()

	if last, exists := w.seen[path]; exists && last.Equal(modTime) {
		return false
	}
	w.seen[path] = modTime
	return true
}

// isImageFile checks the extension against the decodable formats.
func isImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}
