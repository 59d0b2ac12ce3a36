// Package explain renders planning suggestion explanations as expandable
// cards, independent of the chart.
package explain

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
)

//go:embed templates/*.html
var templateFS embed.FS

var panelTemplate = template.Must(template.ParseFS(templateFS, "templates/panel.html"))

// EmptyMessage is shown instead of cards when there are no explanations
const EmptyMessage = "No planning suggestions for this item."

// Card is one explanation and its expansion state
type Card struct {
	entities.Explanation
	Expanded bool
}

// SeverityLabel is Info, Warning or Critical
func (c Card) SeverityLabel() string {
	return c.Severity.String()
}

// SeverityClass is the CSS class of the severity badge
func (c Card) SeverityClass() string {
	return fmt.Sprintf("severity-%d", c.Severity)
}

// ActionClass is "action-" followed by the lower-cased letters of the action
func (c Card) ActionClass() string {
	var b strings.Builder
	b.WriteString("action-")
	for _, r := range strings.ToLower(c.Action) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// QtyLabel renders the suggested quantity
func (c Card) QtyLabel() string {
	return format.Qty(c.Qty)
}

// ToggleLabel is the caption of the expand button
func (c Card) ToggleLabel() string {
	if c.Expanded {
		return "Hide Details"
	}
	return "Show Details"
}

// Panel is the explanation list of one item
type Panel struct {
	cards []Card
}

// NewPanel builds collapsed cards in payload order
func NewPanel(payload *entities.ExplanationPayload) *Panel {
	p := &Panel{}
	if payload == nil {
		return p
	}
	p.cards = make([]Card, len(payload.Explanations))
	for i, e := range payload.Explanations {
		p.cards[i] = Card{Explanation: e}
	}
	return p
}

// Len is the number of cards
func (p *Panel) Len() int {
	return len(p.cards)
}

// Cards returns a copy of the cards
func (p *Panel) Cards() []Card {
	return append([]Card(nil), p.cards...)
}

// Card returns card i
func (p *Panel) Card(i int) (Card, error) {
	if i < 0 || i >= len(p.cards) {
		return Card{}, fmt.Errorf("card index %d out of range [0, %d)", i, len(p.cards))
	}
	return p.cards[i], nil
}

// Toggle flips the detail section of card i and returns its new state
func (p *Panel) Toggle(i int) (bool, error) {
	if i < 0 || i >= len(p.cards) {
		return false, fmt.Errorf("card index %d out of range [0, %d)", i, len(p.cards))
	}
	p.cards[i].Expanded = !p.cards[i].Expanded
	return p.cards[i].Expanded, nil
}

// Activate reports whether a drill-down request should be sent for reqLineNo.
// Zero never navigates.
func (p *Panel) Activate(reqLineNo int) bool {
	return reqLineNo != 0
}

type panelView struct {
	Title        string
	EmptyMessage string
	Cards        []Card
}

// Render writes the panel markup. Every free-text field is escaped by
// html/template.
func (p *Panel) Render(w io.Writer) error {
	view := panelView{
		Title:        "Planning Suggestions Explained",
		EmptyMessage: EmptyMessage,
		Cards:        p.cards,
	}
	if err := panelTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render explanation panel: %w", err)
	}
	return nil
}

// HTML renders the panel to a string
func (p *Panel) HTML() (string, error) {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText renders the cards for a terminal, one block per card
func (p *Panel) PlainText() string {
	if len(p.cards) == 0 {
		return EmptyMessage + "\n"
	}
	var b strings.Builder
	for _, c := range p.cards {
		fmt.Fprintf(&b, "[%s] %s %s units, due %s (%s)\n", c.SeverityLabel(), c.Action, c.QtyLabel(), c.DueDate, c.ReorderingPolicy)
		fmt.Fprintf(&b, "  %s\n", strings.TrimSpace(c.Summary))
		if c.Expanded {
			fmt.Fprintf(&b, "  Reason: %s\n  Impact: %s\n", c.Why, c.Impact)
		}
	}
	return b.String()
}
