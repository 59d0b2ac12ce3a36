package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
)

var (
	colorTitle   = lipgloss.Color("#7AA2F7")
	colorMuted   = lipgloss.Color("#565F89")
	colorOK      = lipgloss.Color("#28A745")
	colorWarning = lipgloss.Color("#FFC107")
	colorDanger  = lipgloss.Color("#DC3545")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	labelStyle   = lipgloss.NewStyle().Width(22)
)

// levelColors shades the per-level segment counts of the coloured series
var levelColors = map[string]lipgloss.Color{
	"normal":   colorOK,
	"warning":  colorWarning,
	"critical": colorDanger,
}

// barWidth is the widest count bar in the events section
const barWidth = 24

// RenderSummary writes the lipgloss terminal summary of the controller's chart
func RenderSummary(w io.Writer, c *visualizer.Controller, title string) error {
	snap, err := BuildSnapshot(c)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, Summary(snap, title))
	return err
}

// Summary formats a snapshot for the terminal
func Summary(snap *Snapshot, title string) string {
	var sb strings.Builder
	if title == "" {
		title = "Planning Visualizer"
	}
	sb.WriteString(titleStyle.Render("📊 "+title) + "\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("horizon %d days, tracking %s, coverage %s",
		snap.State.HorizonDays, onOff(snap.State.ShowTracking), onOff(snap.State.ShowCoverage))) + "\n\n")

	sb.WriteString(sectionStyle.Render("Events") + "\n")
	peak := 0
	for _, n := range snap.Events {
		if n > peak {
			peak = n
		}
	}
	for _, category := range entities.Categories {
		n := snap.Events[category.Key()]
		filled := 0
		if peak > 0 {
			filled = n * barWidth / peak
		}
		line := labelStyle.Render(category.String()) +
			lipgloss.NewStyle().Foreground(colorTitle).Render(strings.Repeat("█", filled)) +
			mutedStyle.Render(strings.Repeat("░", barWidth-filled)) +
			fmt.Sprintf(" %d", n)
		if !snap.State.Categories[category.Key()] {
			line += mutedStyle.Render(" (hidden)")
		}
		sb.WriteString("  " + line + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render("Projections") + "\n")
	for _, s := range snap.Series {
		line := labelStyle.Render(s.Name) + fmt.Sprintf("%d points", s.Points)
		for _, level := range []string{"normal", "warning", "critical"} {
			if n, ok := s.Levels[level]; ok {
				line += " " + lipgloss.NewStyle().Foreground(levelColors[level]).Render(fmt.Sprintf("%s:%d", level, n))
			}
		}
		if !s.Visible {
			line += mutedStyle.Render(" (hidden)")
		}
		sb.WriteString("  " + line + "\n")
	}

	if len(snap.Annotations) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Thresholds") + "\n")
		for _, a := range snap.Annotations {
			if a.Label != "" {
				sb.WriteString("  " + a.Label + "\n")
				continue
			}
			sb.WriteString("  " + mutedStyle.Render(fmt.Sprintf("%s %s..%s", a.Kind, a.From, a.To)) + "\n")
		}
	}

	if len(snap.Coverage) > 0 {
		sb.WriteString("\n" + sectionStyle.Render("Coverage") + "\n")
		for _, row := range snap.Coverage {
			sb.WriteString(fmt.Sprintf("  #%d %s  x %.0f..%.0f  y %.0f..%.0f\n",
				row.Index+1, row.Tooltip.Title,
				row.Coverage.X0, row.Coverage.X1, row.Coverage.Y0, row.Coverage.Y1))
		}
	}

	if snap.Explanations > 0 {
		sb.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d planning suggestions explained", snap.Explanations)) + "\n")
	}
	return sb.String()
}

// HoverSummary formats a pointer hit for planviz inspect
func HoverSummary(h visualizer.Hover, hit bool) string {
	if !hit {
		return mutedStyle.Render(fmt.Sprintf("nothing at (%.0f, %.0f)", h.Pointer.X, h.Pointer.Y)) + "\n"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("🎯 %s at (%.0f, %.0f)", h.Kind, h.Pointer.X, h.Pointer.Y)) + "\n")
	if h.Tooltip.Title != "" {
		sb.WriteString("  " + lipgloss.NewStyle().Bold(true).Render(h.Tooltip.Title) + "\n")
	}
	for _, line := range h.Tooltip.Lines {
		sb.WriteString("  " + line + "\n")
	}
	return sb.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
