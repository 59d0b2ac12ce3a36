package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	testhelpers "github.com/vsinha/planviz/pkg/infrastructure/testing"
)

func loaded(t *testing.T) *visualizer.Controller {
	t.Helper()
	c := visualizer.NewController(visualizer.DefaultConfig(), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := c.LoadChartData(testhelpers.SampleChartJSON()); err != nil {
		t.Fatalf("Expected sample payload to load, got %v", err)
	}
	if err := c.LoadExplanations(testhelpers.SampleExplanationsJSON()); err != nil {
		t.Fatalf("Expected sample explanations to load, got %v", err)
	}
	return c
}

func TestWrite_Formats(t *testing.T) {
	testCases := []struct {
		format   string
		contains []string
	}{
		{"svg", []string{"<svg", `class="coverage"`, "</svg>"}},
		{"html", []string{"<!DOCTYPE html>", "<svg", "Planning Suggestions Explained", "window.planviz"}},
		{"echarts", []string{"echarts", "Suggested Supply"}},
		{"json", []string{`"events"`, `"coverage"`, `"horizonDays": 90`}},
		{"text", []string{"Events", "Existing Supply", "Reorder Point (25)"}},
	}

	c := loaded(t)
	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(c, Config{Format: tc.format, Title: "Item 1000"}, &buf); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			for _, want := range tc.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Expected %s output to contain %q", tc.format, want)
				}
			}
		})
	}

	if err := Write(c, Config{Format: "csv"}, io.Discard); err == nil {
		t.Errorf("Expected an error for an unsupported format")
	}
}

func TestGenerate_ToFile(t *testing.T) {
	c := loaded(t)
	path := filepath.Join(t.TempDir(), "out", "chart.png")

	var stdout bytes.Buffer
	if err := Generate(c, Config{Format: "png", OutputPath: path, Verbose: true}, &stdout); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected output file, got %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Errorf("Expected a PNG file")
	}
	if !strings.Contains(stdout.String(), path) {
		t.Errorf("Expected verbose output to name the file, got %q", stdout.String())
	}

	if err := Generate(c, Config{Format: "png"}, &stdout); err == nil {
		t.Errorf("Expected PNG to stdout to be refused")
	}
}

func TestGenerate_FailedRenderKeepsLastOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	empty := visualizer.NewController(visualizer.DefaultConfig(), nil, nil)
	err := Generate(empty, Config{Format: "json", OutputPath: path}, io.Discard)
	if !errors.Is(err, visualizer.ErrNoChart) {
		t.Errorf("Expected ErrNoChart, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "previous" {
		t.Errorf("Expected the previous output to survive, got %q", data)
	}
}

func TestBuildSnapshot(t *testing.T) {
	c := loaded(t)
	c.ShowTrackingLines(true)

	snap, err := BuildSnapshot(c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expectedEvents := map[string]int{
		"supply": 1, "demand": 1, "suggested": 1, "pending": 0, "component": 1, "forecast": 1,
	}
	for key, n := range expectedEvents {
		if snap.Events[key] != n {
			t.Errorf("Expected %d %s events, got %d", n, key, snap.Events[key])
		}
	}
	if len(snap.Tracking) != 2 {
		t.Errorf("Expected 2 tracking lines, got %d", len(snap.Tracking))
	}
	if len(snap.Coverage) != 2 {
		t.Fatalf("Expected 2 coverage rows, got %d", len(snap.Coverage))
	}
	if snap.Coverage[0].Order == nil || snap.Coverage[1].Order != nil {
		t.Errorf("Expected an order window on the first row only")
	}
	if snap.Explanations != 2 {
		t.Errorf("Expected 2 explanations, got %d", snap.Explanations)
	}
	after := snap.Series[1]
	if after.Levels["critical"] != 1 || after.Levels["warning"] != 1 || after.Levels["normal"] != 2 {
		t.Errorf("Expected levels normal 2, warning 1, critical 1; got %v", after.Levels)
	}

	data, _ := json.Marshal(snap)
	if !strings.Contains(string(data), `"showTracking":true`) {
		t.Errorf("Expected tracking state in JSON, got %s", data)
	}
}

func TestHoverSummary(t *testing.T) {
	c := loaded(t)
	g, _ := c.Chart().Coverage().Geometry(0, c.Chart().CoverageBars()[0])
	center := g.Coverage.Center()

	hover, hit := c.PointerMove(center.X, center.Y)
	out := HoverSummary(hover, hit)
	if !strings.Contains(out, "coverage") || !strings.Contains(out, "Supply: 40") {
		t.Errorf("Expected a coverage hit summary, got %q", out)
	}

	hover, hit = c.PointerMove(-50, -50)
	if out := HoverSummary(hover, hit); !strings.Contains(out, "nothing at") {
		t.Errorf("Expected a miss summary, got %q", out)
	}
}
