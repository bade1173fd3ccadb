// Package watch re-runs the sales report whenever its input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultDebounce is the quiet period after the last write before a run starts.
const DefaultDebounce = 500 * time.Millisecond

// Config holds the watcher configuration.
type Config struct {
	Path       string        `json:"path"`
	Debounce   time.Duration `json:"debounce"`
	RunOnStart bool          `json:"runOnStart"`
}

// Event records one handler run triggered by a file change.
type Event struct {
	Time      time.Time `json:"time"`
	Path      string    `json:"path"`
	Operation string    `json:"operation"` // "start", "CREATE", "WRITE", ...
	Status    string    `json:"status"`    // "processed", "error"
	Error     string    `json:"error,omitempty"`
}

// Handler is called with the watched path after each debounced change.
type Handler func(ctx context.Context, path string) error

// Status represents the current watcher status.
type Status struct {
	Running    bool   `json:"running"`
	Path       string `json:"path"`
	EventCount int    `json:"eventCount"`
	Failures   int    `json:"failures"`
}

// Watcher monitors one file and triggers the handler when it changes.
// The parent directory is watched so that editors replacing the file
// through a rename are still noticed.
type Watcher struct {
	Config  Config
	Logger  logrus.FieldLogger
	Handler Handler

	mu      sync.Mutex
	runMu   sync.Mutex
	pending sync.WaitGroup // debounced runs scheduled or in flight
	events  []Event
	running bool
	target  string
	timer   *time.Timer
	watcher *fsnotify.Watcher
}

// New creates a new Watcher with the given configuration.
func New(config Config) (*Watcher, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("no file to watch — set input.path or pass --input")
	}
	target, err := filepath.Abs(config.Path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", config.Path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}

	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	return &Watcher{
		Config:  config,
		Logger:  logrus.StandardLogger(),
		target:  target,
		watcher: fsw,
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.target)
	if err := w.watcher.Add(dir); err != nil {
		w.watcher.Close()
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	log := w.Logger.WithField("path", w.target)
	log.Info("watching for changes")

	if w.Config.RunOnStart {
		w.run(ctx, "start")
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("stopping watcher")
			w.stop()
			return w.watcher.Close()
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.stop()
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.stop()
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

// stop cancels a pending debounced run and waits for one already started.
func (w *Watcher) stop() {
	w.mu.Lock()
	w.running = false
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.timer = nil
	w.mu.Unlock()

	w.pending.Wait()
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.target {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	op := event.Op.String()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	if w.timer != nil && w.timer.Stop() {
		w.pending.Done()
	}
	w.pending.Add(1)
	w.timer = time.AfterFunc(w.Config.Debounce, func() {
		defer w.pending.Done()
		if ctx.Err() != nil {
			return
		}
		w.run(ctx, op)
	})
}

func (w *Watcher) run(ctx context.Context, operation string) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	evt := Event{
		Time:      time.Now(),
		Path:      w.target,
		Operation: operation,
		Status:    "processed",
	}
	log := w.Logger.WithFields(logrus.Fields{"path": w.target, "op": operation})

	if w.Handler == nil {
		log.Debug("change detected [no handler]")
	} else if err := w.Handler(ctx, w.target); err != nil {
		evt.Status = "error"
		evt.Error = err.Error()
		log.WithError(err).Error("report run failed")
	} else {
		log.Info("report regenerated")
	}

	w.mu.Lock()
	w.events = append(w.events, evt)
	w.mu.Unlock()
}

// GetStatus returns the current watcher status.
func (w *Watcher) GetStatus() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	failures := 0
	for _, e := range w.events {
		if e.Status == "error" {
			failures++
		}
	}
	return Status{
		Running:    w.running,
		Path:       w.target,
		EventCount: len(w.events),
		Failures:   failures,
	}
}

// GetEvents returns all recorded events.
func (w *Watcher) GetEvents() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make([]Event, len(w.events))
	copy(events, w.events)
	return events
}
