package testing

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vsinha/planviz/pkg/domain/entities"
)

func qty(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func point(date string, balance int64) entities.ProjectionPoint {
	return entities.ProjectionPoint{Date: date, Balance: qty(balance)}
}

// BuildSampleChartPayload builds a single-item scenario exercising every
// category, a tracking pair on each side and two coverage rows
func BuildSampleChartPayload() *entities.ChartPayload {
	return &entities.ChartPayload{
		ProjectionBefore: []entities.ProjectionPoint{
			point("2025-01-01", 50),
			point("2025-01-03", 60),
			point("2025-01-05", 30),
			point("2025-01-08", 15),
			point("2025-01-09", 10),
		},
		ProjectionAfter: []entities.ProjectionPoint{
			point("2025-01-01", 50),
			point("2025-01-03", 60),
			point("2025-01-05", 20),
			point("2025-01-08", 5),
			point("2025-01-10", 45),
		},
		Events: []entities.Event{
			{
				EntryNo: 1, Type: entities.InitialInventory, Date: "2025-01-01",
				Qty: qty(50), BalanceAfter: qty(50), IsSupply: true,
			},
			{
				EntryNo: 2, Type: entities.DemandEvent, Date: "2025-01-05",
				Qty: qty(30), BalanceAfter: qty(20), Description: "Sales Order SO100",
				SourcePageID: 42, SourceDocNo: "SO100", SourceLineNo: 10000,
			},
			{
				EntryNo: 3, Type: entities.PlanningComponent, Date: "2025-01-08",
				Qty: qty(15), BalanceAfter: qty(5), Description: "Component of ASM-1",
			},
			{
				EntryNo: 4, Type: entities.SuggestedSupplyEvent, Date: "2025-01-10",
				Qty: qty(40), BalanceAfter: qty(45), IsSupply: true, IsSuggestion: true,
				ActionMessage: "New",
			},
			{
				EntryNo: 5, Type: entities.SupplyEvent, Date: "2025-01-03",
				Qty: qty(10), BalanceAfter: qty(60), IsSupply: true, Description: "Purchase Order PO7",
				SourcePageID: 50, SourceDocNo: "PO7",
			},
			{
				EntryNo: 6, Type: entities.DemandForecast, Date: "2025-01-09",
				Qty: qty(5), BalanceAfter: qty(40),
			},
		},
		Thresholds: entities.Threshold{
			SafetyStock:  qty(10),
			ReorderPoint: qty(25),
			MaxInventory: qty(100),
		},
		TrackingPairs: []entities.TrackingPair{
			{SupplyEntryNo: 4, DemandEntryNo: 3},
			{SupplyEntryNo: 5, DemandEntryNo: 2},
		},
		CoverageBars: []entities.CoverageBar{
			{
				StartDate: "2025-01-08", EndDate: "2025-01-10",
				SupplyQty: qty(40), ActionMessage: "New",
				OrderStartDate: "2025-01-03", OrderEndDate: "2025-01-08",
				TrackedDemand: []entities.TrackedDemand{
					{Date: "2025-01-09", Qty: qty(5), Source: "Forecast"},
				},
				UntrackedElements: []entities.UntrackedElement{
					{Source: "Safety Stock", Qty: qty(10)},
				},
			},
			{
				StartDate: "2025-01-03",
				SupplyQty: qty(10),
				TrackedDemand: []entities.TrackedDemand{
					{Date: "2025-01-05", Qty: qty(10), Source: "SO100"},
				},
			},
		},
	}
}

// BuildSampleExplanations builds explanations for the sample scenario
func BuildSampleExplanations() *entities.ExplanationPayload {
	return &entities.ExplanationPayload{
		Explanations: []entities.Explanation{
			{
				ReqLineNo: 10000, Severity: entities.SeverityCritical, Action: "New",
				Qty: qty(40), DueDate: "2025-01-08", ReorderingPolicy: "Lot-for-Lot",
				Summary: "Order 40 to cover the component demand",
				Why:     "Projected inventory falls below safety stock on Jan 8",
				Impact:  "Restores inventory above the reorder point",
			},
			{
				ReqLineNo: 20000, Severity: entities.SeverityWarning, Action: "Reschedule",
				Qty: qty(10), DueDate: "2025-01-03", ReorderingPolicy: "Lot-for-Lot",
				Summary: "Move PO7 earlier",
			},
		},
	}
}

// SampleChartJSON is the sample chart payload as the host sends it
func SampleChartJSON() string {
	return mustJSON(BuildSampleChartPayload())
}

// SampleExplanationsJSON is the sample explanation payload as the host sends it
func SampleExplanationsJSON() string {
	return mustJSON(BuildSampleExplanations())
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// EventClick is one recorded event click-through
type EventClick struct {
	EntryNo      int
	SourcePageID int
	SourceDocNo  string
	SourceLineNo int
}

// RecordingBridge records host callbacks. Err, when set, is returned by
// every callback.
type RecordingBridge struct {
	mu           sync.Mutex
	Horizons     []int
	Events       []EventClick
	Explanations []int
	Err          error
}

// NotifyHorizonChanged records a horizon change
func (b *RecordingBridge) NotifyHorizonChanged(_ context.Context, days int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Horizons = append(b.Horizons, days)
	return b.Err
}

// NotifyEventClicked records an event click-through
func (b *RecordingBridge) NotifyEventClicked(_ context.Context, entryNo, sourcePageID int, sourceDocNo string, sourceLineNo int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Events = append(b.Events, EventClick{
		EntryNo:      entryNo,
		SourcePageID: sourcePageID,
		SourceDocNo:  sourceDocNo,
		SourceLineNo: sourceLineNo,
	})
	return b.Err
}

// NotifyExplanationClicked records an explanation drill-down
func (b *RecordingBridge) NotifyExplanationClicked(_ context.Context, reqLineNo int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Explanations = append(b.Explanations, reqLineNo)
	return b.Err
}
