package entities

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDecodeChartPayload(t *testing.T) {
	raw := `{
		"projectionBefore": [{"date": "2025-01-01", "balance": 10}],
		"projectionAfter": [{"date": "2025-01-01", "balance": 10}, {"date": "2025-01-05", "balance": 35}],
		"events": [{"entryNo": 1, "type": "Initial Inventory", "date": "2025-01-01", "qty": 10, "balanceAfter": 10}],
		"thresholds": {"safetyStock": 5, "reorderPoint": -2},
		"trackingPairs": [{"supplyEntryNo": 2, "demandEntryNo": 3}],
		"coverageBars": [{"startDate": "2025-01-05", "supplyQty": 25, "trackedDemand": [{"date": "2025-01-07", "qty": 4, "source": "SO100"}]}]
	}`

	payload, err := DecodeChartPayload([]byte(raw))
	if err != nil {
		t.Fatalf("Expected payload to decode: %v", err)
	}

	if len(payload.Projection(VariantAfter)) != 2 {
		t.Errorf("Expected 2 after points, got %d", len(payload.Projection(VariantAfter)))
	}
	if len(payload.Projection(VariantForecasted)) != 0 {
		t.Errorf("Expected no forecasted points, got %d", len(payload.Projection(VariantForecasted)))
	}
	if !payload.Thresholds.SafetyStock.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected safety stock 5, got %s", payload.Thresholds.SafetyStock)
	}
	if !payload.Thresholds.ReorderPoint.IsZero() {
		t.Errorf("Expected negative reorder point to be clamped to zero, got %s", payload.Thresholds.ReorderPoint)
	}
	if payload.CoverageBars[0].End() != "2025-01-05" {
		t.Errorf("Expected end date to default to start date, got %s", payload.CoverageBars[0].End())
	}
	if payload.Events[0].Type != InitialInventory {
		t.Errorf("Expected initial inventory event, got %v", payload.Events[0].Type)
	}
}

func TestDecodeChartPayload_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not an object", `[1, 2, 3]`},
		{"truncated", `{"events": [`},
		{"wrong field type", `{"events": "none"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeChartPayload([]byte(tc.raw))
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Expected ErrInvalidPayload, got %v", err)
			}
		})
	}
}

func TestDecodeExplanationPayload(t *testing.T) {
	raw := `{"explanations": [{"reqLineNo": 20000, "severity": 3, "action": "New", "qty": 150, "dueDate": "2025-02-01"}]}`

	payload, err := DecodeExplanationPayload([]byte(raw))
	if err != nil {
		t.Fatalf("Expected payload to decode: %v", err)
	}
	if len(payload.Explanations) != 1 {
		t.Fatalf("Expected 1 explanation, got %d", len(payload.Explanations))
	}
	if payload.Explanations[0].Severity.String() != "Critical" {
		t.Errorf("Expected Critical severity, got %s", payload.Explanations[0].Severity)
	}
}

func TestCoverageBar_Validation(t *testing.T) {
	bar, err := NewCoverageBar("2025-01-05", "", decimal.NewFromInt(25))
	if err != nil {
		t.Fatalf("Expected valid coverage bar creation to succeed: %v", err)
	}
	if bar.HasOrderWindow() {
		t.Errorf("Expected no order window")
	}

	testCases := []struct {
		name        string
		start       string
		end         string
		qty         decimal.Decimal
		expectError string
	}{
		{"empty start", "", "", decimal.NewFromInt(1), "start date cannot be empty"},
		{"invalid start", "soon", "", decimal.NewFromInt(1), `invalid start date "soon"`},
		{"invalid end", "2025-01-05", "later", decimal.NewFromInt(1), `invalid end date "later"`},
		{"negative qty", "2025-01-05", "", decimal.NewFromInt(-4), "supply quantity cannot be negative, got -4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCoverageBar(tc.start, tc.end, tc.qty)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input string
		ok    bool
	}{
		{"2025-01-15", true},
		{"2025-01-15T08:30:00Z", true},
		{"2025-01-15T08:30:00", true},
		{"01/15/2025", true},
		{"", false},
		{"15.01.2025", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if _, ok := ParseDate(tc.input); ok != tc.ok {
				t.Errorf("Expected ok=%v for %q, got %v", tc.ok, tc.input, ok)
			}
		})
	}
}
