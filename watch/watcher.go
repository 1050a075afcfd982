// Package watch regenerates revisions when their catalog files change.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrNoFiles is returned when there is nothing on disk to watch.
var ErrNoFiles = errors.New("no catalog files to watch")

// WatcherConfig configures the catalog watcher
type WatcherConfig struct {
	// Files maps catalog file paths to the revision label they feed
	Files map[string]string

	// DebounceDelay is how long to wait for more changes before reporting
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Change is one debounced batch of catalog changes
type Change struct {
	// Labels are the revisions whose catalogs changed content, sorted
	Labels []string

	// Deleted are the revisions whose catalogs disappeared, sorted
	Deleted []string
}

// Watcher watches catalog files and reports which revisions need
// regenerating
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	files   map[string]string // cleaned absolute path → label

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op // path → most recent operation

	// Content hashes so saves that change nothing are ignored
	hashes map[string]string

	changes chan Change
	cancel  context.CancelFunc
	done    chan struct{}

	stopOnce sync.Once
	stopErr  error
}

// NewWatcher creates a new catalog watcher
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if len(config.Files) == 0 {
		return nil, ErrNoFiles
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 250 * time.Millisecond
	}

	files := make(map[string]string, len(config.Files))
	for p, label := range config.Files {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		files[filepath.Clean(abs)] = label
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		files:   files,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		changes: make(chan Change, 16),
		done:    make(chan struct{}),
	}, nil
}

// Changes returns the channel of debounced changes. It is closed by Stop.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins watching the directories holding the catalog files. Whole
// directories are watched because editors often replace files by rename.
func (w *Watcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for p := range w.files {
		w.hashes[p] = hashFile(p)
		dirs[filepath.Dir(p)] = true
	}

	watched := 0
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", dir,
				"error", err)
			continue
		}
		watched++
		w.logger.Debug("Watching directory", "path", dir)
	}
	if watched == 0 {
		return ErrNoFiles
	}

	ctx, w.cancel = context.WithCancel(ctx)
	go w.processEvents(ctx)

	w.logger.Info("Catalog watcher started",
		"files", len(w.files),
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher and closes the changes channel. Calls after the
// first return the first result.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.done
		}
		close(w.changes)
		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records events for watched catalog files
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	label, ok := w.files[path]
	if !ok {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Catalog change detected",
		"revision", label,
		"path", path,
		"op", event.Op.String())
}

// flushPending turns accumulated events into one Change
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	var change Change
	for path := range toProcess {
		label := w.files[path]

		// Rename-replace saves report Remove or Rename for a file that
		// exists again by now, so trust the filesystem over the op.
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(w.hashes, path)
			change.Deleted = append(change.Deleted, label)
			continue
		}

		hash := hashFile(path)
		if old, ok := w.hashes[path]; ok && old == hash {
			continue
		}
		w.hashes[path] = hash
		change.Labels = append(change.Labels, label)
	}

	if len(change.Labels) == 0 && len(change.Deleted) == 0 {
		return
	}
	change.Labels = dedupe(change.Labels)
	change.Deleted = dedupe(change.Deleted)

	select {
	case w.changes <- change:
		w.logger.Debug("Sent catalog change",
			"revisions", change.Labels,
			"deleted", change.Deleted)
	case <-ctx.Done():
	}
}

func hashFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func dedupe(labels []string) []string {
	if len(labels) == 0 {
		return nil
	}
	sort.Strings(labels)
	out := labels[:1]
	for _, l := range labels[1:] {
		if l != out[len(out)-1] {
			out = append(out, l)
		}
	}
	return out
}
