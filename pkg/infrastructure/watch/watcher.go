// Package watch reloads a controller whenever its payload files change on
// disk, debouncing bursts of editor writes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vsinha/planviz/pkg/application/visualizer"
)

// RenderFunc writes the output for a freshly loaded controller
type RenderFunc func(c *visualizer.Controller) error

// Watcher ties a chart payload file (and optional explanations file) to a
// controller and an output renderer
type Watcher struct {
	controller      *visualizer.Controller
	chartPath       string
	explanationPath string
	render          RenderFunc
	debounce        time.Duration
	logger          *slog.Logger
	onReload        func(error)
}

// Option configures a Watcher
type Option func(*Watcher)

// WithExplanations also watches the explanation payload at path
func WithExplanations(path string) Option {
	return func(w *Watcher) {
		if path != "" {
			w.explanationPath = filepath.Clean(path)
		}
	}
}

// WithDebounce sets the quiet period before a reload
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithOnReload registers a callback run after every reload attempt
func WithOnReload(fn func(error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New creates a watcher. Nothing is read until Reload or Run.
func New(controller *visualizer.Controller, chartPath string, render RenderFunc, opts ...Option) (*Watcher, error) {
	if chartPath == "" {
		return nil, fmt.Errorf("chart path cannot be empty")
	}
	if render == nil {
		return nil, fmt.Errorf("render function cannot be nil")
	}
	w := &Watcher{
		controller: controller,
		chartPath:  filepath.Clean(chartPath),
		render:     render,
		debounce:   200 * time.Millisecond,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Reload reads the payload files into the controller and renders. A payload
// that fails to parse leaves the controller and the last output untouched.
func (w *Watcher) Reload() error {
	data, err := os.ReadFile(w.chartPath)
	if err != nil {
		return fmt.Errorf("failed to read chart payload: %w", err)
	}
	if err := w.controller.LoadChartData(string(data)); err != nil {
		return err
	}

	if w.explanationPath != "" {
		data, err := os.ReadFile(w.explanationPath)
		if err != nil {
			return fmt.Errorf("failed to read explanations: %w", err)
		}
		if err := w.controller.LoadExplanations(string(data)); err != nil {
			return err
		}
	}

	if err := w.render(w.controller); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	w.logger.Info("payload reloaded", "chart", w.chartPath)
	return nil
}

// Run performs an initial reload, then reloads on every change until ctx is
// done. Reload errors are logged and do not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	// directories survive editors that save by rename
	dirs := map[string]bool{filepath.Dir(w.chartPath): true}
	if w.explanationPath != "" {
		dirs[filepath.Dir(w.explanationPath)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.reload()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("payload changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	err := w.Reload()
	if err != nil {
		w.logger.Error("reload failed, keeping last output", "error", err)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(event.Name)
	return name == w.chartPath || (w.explanationPath != "" && name == w.explanationPath)
}
