package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TrackingPair links a supply event to a demand event it is considered to satisfy
type TrackingPair struct {
	SupplyEntryNo int `json:"supplyEntryNo"`
	DemandEntryNo int `json:"demandEntryNo"`
}

// TrackedDemand is a demand covered by a coverage bar's supply
type TrackedDemand struct {
	Date   string          `json:"date"`
	Qty    decimal.Decimal `json:"qty"`
	Source string          `json:"source"`
}

// UntrackedElement is a contributor to a coverage bar without a dated demand
type UntrackedElement struct {
	Source string          `json:"source"`
	Qty    decimal.Decimal `json:"qty"`
}

// CoverageBar is the window during which a supply quantity covers demand, with an
// optional order lead-time window
type CoverageBar struct {
	StartDate         string             `json:"startDate"`
	EndDate           string             `json:"endDate,omitempty"`
	SupplyQty         decimal.Decimal    `json:"supplyQty"`
	ActionMessage     string             `json:"actionMessage,omitempty"`
	OrderStartDate    string             `json:"orderStartDate,omitempty"`
	OrderEndDate      string             `json:"orderEndDate,omitempty"`
	TrackedDemand     []TrackedDemand    `json:"trackedDemand,omitempty"`
	UntrackedElements []UntrackedElement `json:"untrackedElements,omitempty"`
}

// NewCoverageBar creates a validated CoverageBar
func NewCoverageBar(startDate, endDate string, supplyQty decimal.Decimal) (*CoverageBar, error) {
	if startDate == "" {
		return nil, fmt.Errorf("start date cannot be empty")
	}
	if _, ok := ParseDate(startDate); !ok {
		return nil, fmt.Errorf("invalid start date %q", startDate)
	}
	if endDate != "" {
		if _, ok := ParseDate(endDate); !ok {
			return nil, fmt.Errorf("invalid end date %q", endDate)
		}
	}
	if supplyQty.IsNegative() {
		return nil, fmt.Errorf("supply quantity cannot be negative, got %s", supplyQty)
	}

	return &CoverageBar{
		StartDate: startDate,
		EndDate:   endDate,
		SupplyQty: supplyQty,
	}, nil
}

// End returns the end date, falling back to the start date
func (b CoverageBar) End() string {
	if b.EndDate == "" {
		return b.StartDate
	}
	return b.EndDate
}

// HasOrderWindow reports whether both order window dates are present
func (b CoverageBar) HasOrderWindow() bool {
	return b.OrderStartDate != "" && b.OrderEndDate != ""
}
