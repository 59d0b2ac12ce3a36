// Package tui is the terminal browser over explanation cards.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vsinha/planviz/pkg/application/services/explain"
	"github.com/vsinha/planviz/pkg/application/visualizer"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7AA2F7"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0AF68"))
	detailStyle   = lipgloss.NewStyle().PaddingLeft(4).Foreground(lipgloss.Color("#A9B1D6"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565F89"))
	statusStyle   = lipgloss.NewStyle().Italic(true)
	severityStyle = map[entities.Severity]lipgloss.Style{
		entities.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC3545")),
		entities.SeverityWarning:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFC107")),
		entities.SeverityInfo:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#17A2B8")),
	}
)

// Browser is the bubbletea model. Every action goes through the controller,
// so toggles and drill-downs behave as they do in the host.
type Browser struct {
	ctx        context.Context
	controller *visualizer.Controller
	cursor     int
	status     string
	quitting   bool
}

var _ tea.Model = (*Browser)(nil)

// NewBrowser creates a browser over the controller's explanation panel
func NewBrowser(ctx context.Context, controller *visualizer.Controller) *Browser {
	return &Browser{ctx: ctx, controller: controller}
}

// Run starts the program and blocks until the user quits
func Run(ctx context.Context, controller *visualizer.Controller, opts ...tea.ProgramOption) error {
	opts = append(opts, tea.WithContext(ctx))
	if _, err := tea.NewProgram(NewBrowser(ctx, controller), opts...).Run(); err != nil {
		return fmt.Errorf("explanation browser failed: %w", err)
	}
	return nil
}

func (b *Browser) Init() tea.Cmd {
	return nil
}

func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	panel := b.controller.Panel()
	switch key.String() {
	case "q", "ctrl+c", "esc":
		b.quitting = true
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < panel.Len()-1 {
			b.cursor++
		}
	case "enter", " ":
		if _, err := b.controller.ToggleExplanation(b.cursor); err != nil {
			b.status = err.Error()
		}
	case "o":
		b.open()
	}
	return b, nil
}

func (b *Browser) open() {
	card, err := b.controller.Panel().Card(b.cursor)
	if err != nil {
		b.status = err.Error()
		return
	}
	sent, err := b.controller.ActivateExplanation(b.ctx, card.ReqLineNo)
	switch {
	case err != nil:
		b.status = err.Error()
	case sent:
		b.status = fmt.Sprintf("opened worksheet line %d", card.ReqLineNo)
	default:
		b.status = "no worksheet line to open"
	}
}

func (b *Browser) View() string {
	if b.quitting {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Planning Suggestions Explained") + "\n\n")

	cards := b.controller.Panel().Cards()
	if len(cards) == 0 {
		sb.WriteString(explain.EmptyMessage + "\n")
	}
	for i, card := range cards {
		sb.WriteString(b.cardLine(i, card) + "\n")
		if card.Expanded {
			sb.WriteString(detailStyle.Render(details(card)) + "\n")
		}
	}

	if b.status != "" {
		sb.WriteString("\n" + statusStyle.Render(b.status) + "\n")
	}
	sb.WriteString("\n" + helpStyle.Render("↑/↓ move • enter details • o open • q quit") + "\n")
	return sb.String()
}

func (b *Browser) cardLine(i int, card explain.Card) string {
	cursor := "  "
	if i == b.cursor {
		cursor = cursorStyle.Render("> ")
	}
	style, ok := severityStyle[card.Severity]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return fmt.Sprintf("%s%s %s %s units, due %s",
		cursor, style.Render("["+card.SeverityLabel()+"]"), card.Action, card.QtyLabel(), format.ShortDate(card.DueDate))
}

func details(card explain.Card) string {
	lines := []string{strings.TrimSpace(card.Summary)}
	if card.Why != "" {
		lines = append(lines, "Reason: "+card.Why)
	}
	if card.Impact != "" {
		lines = append(lines, "Impact: "+card.Impact)
	}
	if card.ReorderingPolicy != "" {
		lines = append(lines, "Policy: "+card.ReorderingPolicy)
	}
	return strings.Join(lines, "\n")
}
