package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	testhelpers "github.com/vsinha/planviz/pkg/infrastructure/testing"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newBrowser(t *testing.T) (*Browser, *testhelpers.RecordingBridge) {
	t.Helper()
	bridge := &testhelpers.RecordingBridge{}
	c := visualizer.NewController(visualizer.DefaultConfig(), bridge, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := c.LoadExplanations(testhelpers.SampleExplanationsJSON()); err != nil {
		t.Fatalf("Expected sample explanations to load, got %v", err)
	}
	return NewBrowser(context.Background(), c), bridge
}

func TestBrowser_Navigation(t *testing.T) {
	b, _ := newBrowser(t)

	testCases := []struct {
		name     string
		key      tea.KeyMsg
		expected int
	}{
		{"up at top stays", tea.KeyMsg{Type: tea.KeyUp}, 0},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, 1},
		{"down at bottom stays", runes("j"), 1},
		{"up", runes("k"), 0},
	}
	for _, tc := range testCases {
		b.Update(tc.key)
		if b.cursor != tc.expected {
			t.Errorf("%s: expected cursor %d, got %d", tc.name, tc.expected, b.cursor)
		}
	}
}

func TestBrowser_ToggleAndOpen(t *testing.T) {
	b, bridge := newBrowser(t)

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	card, _ := b.controller.Panel().Card(0)
	if !card.Expanded {
		t.Fatalf("Expected enter to expand the first card")
	}
	if !strings.Contains(b.View(), "Reason: Projected inventory falls below safety stock") {
		t.Errorf("Expected details in the view, got %q", b.View())
	}

	b.Update(tea.KeyMsg{Type: tea.KeyDown})
	b.Update(runes("o"))
	if len(bridge.Explanations) != 1 || bridge.Explanations[0] != 20000 {
		t.Errorf("Expected drill-down for 20000, got %v", bridge.Explanations)
	}
	if !strings.Contains(b.View(), "opened worksheet line 20000") {
		t.Errorf("Expected a status line, got %q", b.View())
	}

	_, cmd := b.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("Expected tea.Quit")
	}
	if b.View() != "" {
		t.Errorf("Expected an empty view after quitting")
	}
}

func TestBrowser_Empty(t *testing.T) {
	c := visualizer.NewController(visualizer.DefaultConfig(), nil, nil)
	b := NewBrowser(context.Background(), c)

	b.Update(tea.KeyMsg{Type: tea.KeyEnter})
	b.Update(runes("o"))
	view := b.View()
	if !strings.Contains(view, "No planning suggestions for this item.") {
		t.Errorf("Expected the empty message, got %q", view)
	}
	if !strings.Contains(view, "out of range") {
		t.Errorf("Expected an error status, got %q", view)
	}
}
