package moderation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"pharmaduty-go/pkg/logger"
)

// Watcher reloads a rules file into a Gate whenever the file is written or replaced.
type Watcher struct {
	mu      sync.Mutex
	gate    *Gate
	path    string
	log     logger.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

func NewWatcher(gate *Gate, path string, log logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		gate:    gate,
		path:    filepath.Clean(path),
		log:     log,
		watcher: fsw,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start watches the parent directory so editors that swap files atomically are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	go w.run(ctx)
	w.log.Info("moderation.watch: watching rules file", "path", w.path)
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.InternalError("moderation.watch: watcher error", err, "path", w.path)
		}
	}
}

func (w *Watcher) reload() {
	rules, err := LoadRules(w.path)
	if err != nil {
		w.log.InternalError("moderation.watch: reload failed, keeping previous rules", err, "path", w.path)
		return
	}
	if len(rules.BadWords) == 0 && len(rules.SuspiciousPatterns) == 0 {
		w.log.Warn("moderation.watch: rules file empty, keeping previous rules", "path", w.path)
		return
	}
	if err := w.gate.Replace(rules); err != nil {
		w.log.InternalError("moderation.watch: apply failed, keeping previous rules", err, "path", w.path)
		return
	}
	w.log.Info("moderation.watch: rules reloaded", "path", w.path, "bad_words", len(rules.BadWords), "patterns", len(rules.SuspiciousPatterns))
}
