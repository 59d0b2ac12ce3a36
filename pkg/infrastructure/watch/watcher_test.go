package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	testhelpers "github.com/vsinha/planviz/pkg/infrastructure/testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestNew_Validation(t *testing.T) {
	c := visualizer.NewController(visualizer.DefaultConfig(), nil, quietLogger())
	render := func(*visualizer.Controller) error { return nil }

	if _, err := New(c, "", render); err == nil {
		t.Errorf("Expected an error for an empty path")
	}
	if _, err := New(c, "chart.json", nil); err == nil {
		t.Errorf("Expected an error for a nil renderer")
	}
}

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.json")
	explainPath := filepath.Join(dir, "explain.json")
	writeFile(t, chartPath, testhelpers.SampleChartJSON())
	writeFile(t, explainPath, testhelpers.SampleExplanationsJSON())

	c := visualizer.NewController(visualizer.DefaultConfig(), nil, quietLogger())
	renders := 0
	w, err := New(c, chartPath, func(*visualizer.Controller) error {
		renders++
		return nil
	}, WithExplanations(explainPath), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := w.Reload(); err != nil {
		t.Fatalf("Expected reload to succeed, got %v", err)
	}
	if renders != 1 || c.Chart() == nil || c.Panel().Len() != 2 {
		t.Fatalf("Expected a loaded chart, 2 cards and one render; got renders=%d cards=%d", renders, c.Panel().Len())
	}

	writeFile(t, chartPath, "{not json")
	err = w.Reload()
	if !errors.Is(err, entities.ErrInvalidPayload) {
		t.Errorf("Expected ErrInvalidPayload, got %v", err)
	}
	if renders != 1 {
		t.Errorf("Expected no render after a bad payload, got %d", renders)
	}
	if c.Chart() == nil {
		t.Errorf("Expected the previous chart to survive")
	}

	os.Remove(chartPath)
	if err := w.Reload(); err == nil {
		t.Errorf("Expected an error for a missing file")
	}
}

func TestWatcher_RunReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.json")
	writeFile(t, chartPath, testhelpers.SampleChartJSON())

	c := visualizer.NewController(visualizer.DefaultConfig(), nil, quietLogger())
	reloads := make(chan error, 8)
	w, _ := New(c, chartPath, func(*visualizer.Controller) error { return nil },
		WithDebounce(20*time.Millisecond),
		WithLogger(quietLogger()),
		WithOnReload(func(err error) { reloads <- err }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	wait := func() error {
		select {
		case err := <-reloads:
			return err
		case <-time.After(5 * time.Second):
			t.Fatalf("Expected a reload")
			return nil
		}
	}

	if err := wait(); err != nil {
		t.Fatalf("Expected the initial reload to succeed, got %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.txt"), "ignored")
	writeFile(t, chartPath, testhelpers.SampleChartJSON())
	if err := wait(); err != nil {
		t.Errorf("Expected the write to reload cleanly, got %v", err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Expected a clean stop, got %v", err)
	}
}

func TestWatcher_Relevant(t *testing.T) {
	c := visualizer.NewController(visualizer.DefaultConfig(), nil, quietLogger())
	w, _ := New(c, "/data/chart.json", func(*visualizer.Controller) error { return nil }, WithExplanations("/data/explain.json"))

	testCases := []struct {
		name     string
		event    fsnotify.Event
		expected bool
	}{
		{"chart write", fsnotify.Event{Name: "/data/chart.json", Op: fsnotify.Write}, true},
		{"explanations create", fsnotify.Event{Name: "/data/explain.json", Op: fsnotify.Create}, true},
		{"chart chmod", fsnotify.Event{Name: "/data/chart.json", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/data/other.json", Op: fsnotify.Write}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := w.relevant(tc.event); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
