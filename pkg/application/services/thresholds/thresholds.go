// Package thresholds derives the horizontal reference lines and zone fills
// drawn from an item's planning parameters.
package thresholds

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/format"
)

// Kind of threshold annotation
type Kind int

const (
	ReorderPointLine Kind = iota
	SafetyStockLine
	DangerZone
	WarningZone
	MaxInventoryLine
)

// String method for Kind enum
func (k Kind) String() string {
	switch k {
	case ReorderPointLine:
		return "reorderPointLine"
	case SafetyStockLine:
		return "safetyStockLine"
	case DangerZone:
		return "dangerZone"
	case WarningZone:
		return "warningZone"
	case MaxInventoryLine:
		return "maxInventoryLine"
	default:
		return "unknown"
	}
}

// Annotation is a horizontal line (From == To) or a band between two balances
type Annotation struct {
	Kind  Kind
	From  decimal.Decimal
	To    decimal.Decimal
	Label string
}

// IsZone reports whether the annotation is a fill rather than a line
func (a Annotation) IsZone() bool {
	return a.Kind == DangerZone || a.Kind == WarningZone
}

// Build emits annotations in draw order: reorder line, safety line, danger
// zone, warning zone, max inventory line. Non-positive values are treated as
// not configured.
func Build(th entities.Threshold) []Annotation {
	ss, rp, mx := th.SafetyStock, th.ReorderPoint, th.MaxInventory
	var out []Annotation

	if rp.IsPositive() {
		out = append(out, line(ReorderPointLine, rp, "Reorder Point"))
	}
	if ss.IsPositive() {
		out = append(out,
			line(SafetyStockLine, ss, "Safety Stock"),
			Annotation{Kind: DangerZone, From: decimal.Zero, To: ss},
		)
	}
	if rp.IsPositive() && ss.IsPositive() {
		out = append(out, Annotation{Kind: WarningZone, From: ss, To: rp})
	}
	if mx.IsPositive() {
		out = append(out, line(MaxInventoryLine, mx, "Max Inventory"))
	}
	return out
}

func line(kind Kind, value decimal.Decimal, name string) Annotation {
	return Annotation{
		Kind:  kind,
		From:  value,
		To:    value,
		Label: fmt.Sprintf("%s (%s)", name, format.Qty(value)),
	}
}

// Values returns every configured threshold value, for sizing the value axis
func Values(th entities.Threshold) []float64 {
	var values []float64
	for _, d := range []decimal.Decimal{th.SafetyStock, th.ReorderPoint, th.MaxInventory} {
		if d.IsPositive() {
			values = append(values, d.InexactFloat64())
		}
	}
	return values
}
