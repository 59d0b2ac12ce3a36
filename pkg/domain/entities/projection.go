package entities

import "github.com/shopspring/decimal"

// ProjectionPoint is one (date, balance) sample of a projected inventory series
type ProjectionPoint struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Variant identifies which projection assumption a series represents
type Variant int

const (
	VariantBefore Variant = iota
	VariantAfter
	VariantForecasted
)

// Variants lists every projection variant in draw order
var Variants = []Variant{VariantBefore, VariantAfter, VariantForecasted}

// String method for Variant enum
func (v Variant) String() string {
	switch v {
	case VariantBefore:
		return "Before Suggestions"
	case VariantAfter:
		return "After Suggestions"
	case VariantForecasted:
		return "Forecasted"
	default:
		return "Unknown"
	}
}

// Key is the short name used on the command line
func (v Variant) Key() string {
	switch v {
	case VariantBefore:
		return "before"
	case VariantAfter:
		return "after"
	case VariantForecasted:
		return "forecasted"
	default:
		return "unknown"
	}
}

// ParseVariant is the inverse of Key
func ParseVariant(key string) (Variant, bool) {
	for _, v := range Variants {
		if v.Key() == key {
			return v, true
		}
	}
	return 0, false
}

// Threshold holds the item's planning parameters. Zero means not configured.
type Threshold struct {
	SafetyStock  decimal.Decimal `json:"safetyStock"`
	ReorderPoint decimal.Decimal `json:"reorderPoint"`
	MaxInventory decimal.Decimal `json:"maxInventory"`
}

// Normalized clamps negative values to zero so they read as "not configured"
func (t Threshold) Normalized() Threshold {
	clamp := func(d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			return decimal.Zero
		}
		return d
	}
	return Threshold{
		SafetyStock:  clamp(t.SafetyStock),
		ReorderPoint: clamp(t.ReorderPoint),
		MaxInventory: clamp(t.MaxInventory),
	}
}
