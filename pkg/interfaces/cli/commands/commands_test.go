package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/infrastructure/config"
	testhelpers "github.com/vsinha/planviz/pkg/infrastructure/testing"
	"github.com/vsinha/planviz/pkg/interfaces/cli/output"
)

// writeFixtures writes the sample payloads into a temp dir
func writeFixtures(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "chart.json")
	explainPath := filepath.Join(dir, "explain.json")
	if err := os.WriteFile(chartPath, []byte(testhelpers.SampleChartJSON()), 0o644); err != nil {
		t.Fatalf("Failed to write chart fixture: %v", err)
	}
	if err := os.WriteFile(explainPath, []byte(testhelpers.SampleExplanationsJSON()), 0o644); err != nil {
		t.Fatalf("Failed to write explanation fixture: %v", err)
	}
	return chartPath, explainPath
}

// run executes the root command and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func testEnv() *Env {
	return &Env{
		Config: config.Default(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdout: io.Discard,
		Stderr: io.Discard,
	}
}

func TestRender_Formats(t *testing.T) {
	chartPath, explainPath := writeFixtures(t)

	tests := []struct {
		format   string
		contains string
	}{
		{"svg", "<svg"},
		{"html", "window.planviz"},
		{"echarts", "After Suggestions"},
		{"text", "Reorder Point"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := run(t, "render", chartPath, "--explanations", explainPath, "--format", tt.format)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !strings.Contains(out, tt.contains) {
				t.Errorf("Expected output to contain %q", tt.contains)
			}
		})
	}
}

func TestRender_TogglesReachTheSnapshot(t *testing.T) {
	chartPath, _ := writeFixtures(t)

	out, err := run(t, "render", chartPath, "--format", "json",
		"--hide", "before,forecast", "--tracking", "--no-coverage", "--horizon", "30", "--highlight", "2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var snap output.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("Expected JSON output, got %v", err)
	}
	if snap.State.Projections["Before Suggestions"] || !snap.State.Projections["After Suggestions"] {
		t.Errorf("Expected only the after series visible, got %v", snap.State.Projections)
	}
	if snap.State.Categories["forecast"] || !snap.State.Categories["demand"] {
		t.Errorf("Expected forecasts hidden and demand shown, got %v", snap.State.Categories)
	}
	if !snap.State.ShowTracking || snap.State.ShowCoverage {
		t.Errorf("Expected tracking on and coverage off, got tracking=%v coverage=%v", snap.State.ShowTracking, snap.State.ShowCoverage)
	}
	if snap.State.HorizonDays != 30 {
		t.Errorf("Expected horizon 30, got %d", snap.State.HorizonDays)
	}
	if snap.State.Highlight != 2 {
		t.Errorf("Expected highlight 2, got %d", snap.State.Highlight)
	}
}

func TestRender_Errors(t *testing.T) {
	chartPath, _ := writeFixtures(t)
	badPath := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(badPath, []byte("{not json"), 0o644)

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported format", []string{"render", chartPath, "--format", "gif"}},
		{"unknown series", []string{"render", chartPath, "--hide", "nope"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "missing.json")}},
		{"bad payload", []string{"render", badPath}},
		{"png to stdout", []string{"render", chartPath, "--format", "png"}},
		{"bad log level", []string{"--log-level", "loud", "render", chartPath}},
		{"missing argument", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestRender_WritesFile(t *testing.T) {
	chartPath, _ := writeFixtures(t)
	outPath := filepath.Join(t.TempDir(), "out", "chart.png")

	out, err := run(t, "render", chartPath, "--format", "png", "-o", outPath, "-v")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, outPath) {
		t.Errorf("Expected the output path to be reported, got %q", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Expected the PNG to exist, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("Expected PNG data")
	}
}

func TestRender_ConfigFile(t *testing.T) {
	chartPath, _ := writeFixtures(t)
	cfgPath := filepath.Join(t.TempDir(), "planviz.yaml")
	os.WriteFile(cfgPath, []byte("overlay:\n  show_tracking: true\n  show_coverage: false\n"), 0o644)

	out, err := run(t, "--config", cfgPath, "render", chartPath, "--format", "json")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var snap output.Snapshot
	json.Unmarshal([]byte(out), &snap)
	if !snap.State.ShowTracking || snap.State.ShowCoverage {
		t.Errorf("Expected the config overlays to apply, got tracking=%v coverage=%v", snap.State.ShowTracking, snap.State.ShowCoverage)
	}
}

func TestInspect(t *testing.T) {
	chartPath, _ := writeFixtures(t)

	c := visualizer.NewController(config.Default().Visualizer(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.LoadChartData(testhelpers.SampleChartJSON())
	demand, ok := c.Chart().Locate(entities.CategoryDemand, 2)
	if !ok {
		t.Fatalf("Expected the demand marker to be placed")
	}

	out, err := run(t, "inspect", chartPath,
		"--x", fmt.Sprintf("%f", demand.X), "--y", fmt.Sprintf("%f", demand.Y), "--click")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, want := range []string{"Sales Order SO100", "📣 event.clicked", `"sourceDocNo":"SO100"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}

	out, err = run(t, "inspect", chartPath, "--x", "1", "--y", "1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "nothing at (1, 1)") {
		t.Errorf("Expected a miss, got:\n%s", out)
	}

	if _, err := run(t, "inspect", chartPath, "--click"); err == nil {
		t.Errorf("Expected --click without a position to fail")
	}
}

func TestExplain(t *testing.T) {
	_, explainPath := writeFixtures(t)

	out, err := run(t, "explain", explainPath, "--expand-all", "--open", "10000")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "Reason: Projected inventory falls below safety stock") {
		t.Errorf("Expected expanded details, got:\n%s", out)
	}
	if !strings.Contains(out, `📣 explanation.clicked {"reqLineNo":10000}`) {
		t.Errorf("Expected the activation callback, got:\n%s", out)
	}

	out, err = run(t, "explain", explainPath, "--html")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(out, "Move PO7 earlier") || !strings.Contains(out, "<") {
		t.Errorf("Expected an HTML panel, got:\n%s", out)
	}
}

func TestExplain_WebhookForwarding(t *testing.T) {
	_, explainPath := writeFixtures(t)

	var (
		mu       sync.Mutex
		received []string
	)
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Type string `json:"type"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		received = append(received, body.Type)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	if _, err := run(t, "explain", explainPath, "--open", "20000", "--webhook", hook.URL); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 || received[0] != "explanation.clicked" {
		t.Errorf("Expected one forwarded callback, got %v", received)
	}
}

func TestServe_Build(t *testing.T) {
	server, repo, err := NewServeCommand(ServeConfig{Title: "Item 1000"}, testEnv()).Build()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected 201, got %d", resp.StatusCode)
	}

	sessions, _ := repo.List()
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session, got %d", len(sessions))
	}
}

func TestWatch_Watcher(t *testing.T) {
	chartPath, explainPath := writeFixtures(t)
	env := testEnv()

	if _, err := NewWatchCommand(WatchConfig{ChartPath: chartPath, Format: "svg"}, env).Watcher(); err == nil {
		t.Errorf("Expected an error without an output path")
	}

	outPath := filepath.Join(t.TempDir(), "chart.svg")
	w, err := NewWatchCommand(WatchConfig{
		ChartPath:        chartPath,
		ExplanationsPath: explainPath,
		Format:           "svg",
		OutputPath:       outPath,
	}, env).Watcher()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := w.Reload(); err != nil {
		t.Fatalf("Expected the reload to render, got %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Expected the output to exist, got %v", err)
	}
	if !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("Expected an SVG document")
	}
}
