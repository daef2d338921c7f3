// Package watch emits debounced change notifications for a fixed set of
// files, so a preprocessor run can be repeated whenever its inputs or
// catalogs change on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounce is how long to wait for more changes before emitting
	// an event.
	DefaultDebounce = 500 * time.Millisecond

	// eventChannelBuffer is the size of the watch event channel.
	eventChannelBuffer = 16
)

// Event is one debounced batch of changed files.
type Event struct {
	// Paths lists the changed files in sorted order. A path appears even
	// when the file was removed; the consumer decides how to react.
	Paths []string
}

// Watcher watches a fixed set of files and emits debounced change events.
// Parent directories are watched rather than the files themselves, so
// editors that replace a file by renaming a temporary over it are still
// seen. Writes that leave a file's content hash unchanged are suppressed.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	files    map[string]bool

	// Debouncing: collect changes before emitting
	pendingMu sync.Mutex
	pending   map[string]bool

	// Hash-based change detection
	hashMu sync.RWMutex
	hashes map[string]string

	// Output channel
	events chan Event

	// Metrics
	droppedEvents atomic.Int64
}

// New creates a watcher over the given files. Paths are made absolute so
// events can be matched regardless of how they were spelled.
func New(files []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		watcher:  fsw,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]bool, len(files)),
		pending:  make(map[string]bool),
		hashes:   make(map[string]string),
		events:   make(chan Event, eventChannelBuffer),
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("resolve %s: %w", file, err)
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	// Seed hashes so the first flush has a baseline to compare against.
	for file := range w.files {
		if content, err := os.ReadFile(file); err == nil {
			w.setHash(file, contentHash(content))
		}
	}

	return w, nil
}

// Events returns the channel of watch events. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins delivering events until ctx is cancelled or the watcher is
// stopped.
func (w *Watcher) Start(ctx context.Context) {
	go w.processEvents(ctx)

	w.logger.Info("Watching for changes",
		"files", len(w.files),
		"debounce", w.debounce)
}

// Stop stops the watcher.
// The events channel is closed by processEvents when it exits.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// DroppedEvents returns the number of events dropped due to channel overflow.
func (w *Watcher) DroppedEvents() int64 {
	return w.droppedEvents.Load()
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events) // Close events channel when goroutine exits
	ticker := time.NewTicker(w.debounce)
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
			w.flushPending()
		}
	}
}

// handleFSEvent records a change to one of the watched files for the next
// flush. Events for other files in the watched directories are ignored.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name
	if !w.files[path] {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = true
	w.pendingMu.Unlock()

	w.logger.Debug("Change detected",
		"path", path,
		"op", event.Op.String())
}

// flushPending emits one event covering the accumulated changes.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]bool)
	w.pendingMu.Unlock()

	var changed []string
	for path := range toProcess {
		content, err := os.ReadFile(path)
		if err != nil {
			// The file vanished or is unreadable; report it so the
			// consumer can surface the failure, and drop the stale hash.
			w.hashMu.Lock()
			delete(w.hashes, path)
			w.hashMu.Unlock()
			changed = append(changed, path)
			continue
		}

		newHash := contentHash(content)
		oldHash, hadHash := w.getHash(path)
		if hadHash && oldHash == newHash {
			// Content unchanged, skip
			continue
		}
		w.setHash(path, newHash)
		changed = append(changed, path)
	}

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	w.sendEvent(Event{Paths: changed})
}

// sendEvent sends an event to the output channel.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event", "paths", event.Paths)
	default:
		dropped := w.droppedEvents.Add(1)
		w.logger.Warn("Event channel full, dropping event",
			"paths", event.Paths,
			"total_dropped", dropped)
	}
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) getHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

func contentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}
