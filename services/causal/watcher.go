// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package causal

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ModelWatcher reloads the model registry when YAML files in a
// directory change.
//
// # Description
//
// Watches a single directory (non-recursive) for changes to *.yaml
// and *.yml files and batches them with a debounce window, so a burst
// of editor writes triggers one reload instead of many. Each reload
// replaces the registry wholesale via Service.ReplaceFromDir.
//
// # Thread Safety
//
// Safe for concurrent use. Reloads run from a single goroutine.
type ModelWatcher struct {
	dir      string
	svc      *Service
	watcher  *fsnotify.Watcher
	debounce time.Duration

	events   chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// ModelWatcherOptions configures the ModelWatcher.
type ModelWatcherOptions struct {
	// DebounceWindow is how long to wait for more changes before
	// reloading. Default: 250ms
	DebounceWindow time.Duration
}

// DefaultModelWatcherOptions returns sensible defaults.
func DefaultModelWatcherOptions() ModelWatcherOptions {
	return ModelWatcherOptions{
		DebounceWindow: 250 * time.Millisecond,
	}
}

// NewModelWatcher creates a watcher over the given model directory.
//
// # Inputs
//
//   - dir: Directory containing YAML model files.
//   - svc: Service whose registry is reloaded on changes.
//   - opts: Optional configuration (nil uses defaults).
//
// # Outputs
//
//   - *ModelWatcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if the underlying fsnotify watcher could not be created.
func NewModelWatcher(dir string, svc *Service, opts *ModelWatcherOptions) (*ModelWatcher, error) {
	if opts == nil {
		defaults := DefaultModelWatcherOptions()
		opts = &defaults
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &ModelWatcher{
		dir:      dir,
		svc:      svc,
		watcher:  watcher,
		debounce: opts.DebounceWindow,
		events:   make(chan struct{}, 64),
		done:     make(chan struct{}),
	}, nil
}

// Start performs an initial load and begins watching.
//
// # Description
//
// Loads the directory once so the registry is populated before the
// first change event, then spawns the event processor and the
// debounced reloader. Both goroutines exit when Stop() is called or
// the context is canceled.
func (w *ModelWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	n, err := w.svc.ReplaceFromDir(w.dir)
	if err != nil {
		return err
	}
	slog.Info("Model directory loaded", "dir", w.dir, "models", n)

	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}

	go w.processEvents(ctx)
	go w.reloadLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (w *ModelWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true if the watcher is currently active.
func (w *ModelWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// isModelFile reports whether a path looks like a model file.
func isModelFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// processEvents filters fsnotify events down to model-file changes.
func (w *ModelWatcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isModelFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			select {
			case w.events <- struct{}{}:
			default:
				// Reload already pending.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Model watcher error", "error", err)
		}
	}
}

// reloadLoop debounces change signals and reloads the registry.
func (w *ModelWatcher) reloadLoop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		n, err := w.svc.ReplaceFromDir(w.dir)
		if err != nil {
			slog.Error("Model reload failed", "dir", w.dir, "error", err)
			return
		}
		slog.Info("Model registry reloaded", "dir", w.dir, "models", n)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.events:
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			reload()
		}
	}
}
