package entities

import "github.com/shopspring/decimal"

// Severity ranks how urgent a planning suggestion is
type Severity int

const (
	SeverityInfo     Severity = 1
	SeverityWarning  Severity = 2
	SeverityCritical Severity = 3
)

// String method for Severity enum. Out-of-range values read as Info.
func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityWarning:
		return "Warning"
	default:
		return "Info"
	}
}

// Explanation is a human-readable rationale for one suggested action
type Explanation struct {
	ReqLineNo        int             `json:"reqLineNo"`
	Severity         Severity        `json:"severity"`
	Action           string          `json:"action"`
	Qty              decimal.Decimal `json:"qty"`
	DueDate          string          `json:"dueDate"`
	ReorderingPolicy string          `json:"reorderingPolicy"`
	Summary          string          `json:"summary"`
	Why              string          `json:"why"`
	Impact           string          `json:"impact"`
}
