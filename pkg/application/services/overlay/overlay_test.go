package overlay

import (
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/planviz/pkg/application/axis"
	"github.com/vsinha/planviz/pkg/application/canvas"
	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// dayAxis spreads 2025-01-01..2025-01-11 over 0..1000, 100 px per day
func dayAxis() *axis.Category {
	labels := make([]string, 11)
	for i := range labels {
		labels[i] = fmt.Sprintf("2025-01-%02d", i+1)
	}
	return axis.NewCategory(labels, 0, 1000)
}

func newLayout() *CoverageLayout {
	return NewCoverageLayout(dayAxis(), DefaultLayout(50))
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCoverageLayout_RowPlacement(t *testing.T) {
	layout := newLayout()
	bar := entities.CoverageBar{
		StartDate:      "2025-01-03",
		EndDate:        "2025-01-05",
		OrderStartDate: "2025-01-01",
		OrderEndDate:   "2025-01-03",
	}

	testCases := []struct {
		row          int
		orderTop     float64
		coverageTop  float64
		coverageBase float64
	}{
		{0, 56, 68, 82},
		{1, 88, 100, 114},
		{3, 152, 164, 178},
	}

	for _, tc := range testCases {
		g, ok := layout.Geometry(tc.row, bar)
		if !ok {
			t.Fatalf("Expected row %d to be placeable", tc.row)
		}
		if !g.HasOrder {
			t.Fatalf("Expected an order rectangle in row %d", tc.row)
		}
		if !approx(g.Order.Y0, tc.orderTop) {
			t.Errorf("Row %d: expected order top %v, got %v", tc.row, tc.orderTop, g.Order.Y0)
		}
		if !approx(g.Coverage.Y0, tc.coverageTop) || !approx(g.Coverage.Y1, tc.coverageBase) {
			t.Errorf("Row %d: expected coverage %v..%v, got %v..%v",
				tc.row, tc.coverageTop, tc.coverageBase, g.Coverage.Y0, g.Coverage.Y1)
		}
		if g.Order.Y1 >= g.Coverage.Y0 {
			t.Errorf("Row %d: expected the order bar above the coverage bar", tc.row)
		}
	}

	g, _ := layout.Geometry(0, bar)
	if !approx(g.Coverage.X0, 200) || !approx(g.Coverage.X1, 400) {
		t.Errorf("Expected coverage span 200..400, got %v..%v", g.Coverage.X0, g.Coverage.X1)
	}
	if !approx(g.Order.X0, 0) || !approx(g.Order.X1, 200) {
		t.Errorf("Expected order span 0..200, got %v..%v", g.Order.X0, g.Order.X1)
	}
}

func TestCoverageLayout_ReversedRangeNormalised(t *testing.T) {
	g, ok := newLayout().Geometry(0, entities.CoverageBar{StartDate: "2025-01-05", EndDate: "2025-01-03"})
	if !ok {
		t.Fatalf("Expected a reversed range to be placeable")
	}
	if !approx(g.Coverage.X0, 200) || !approx(g.Coverage.X1, 400) {
		t.Errorf("Expected span 200..400, got %v..%v", g.Coverage.X0, g.Coverage.X1)
	}
}

func TestCoverageLayout_MinimumWidthBoundaryHit(t *testing.T) {
	layout := newLayout()
	bars := []entities.CoverageBar{{StartDate: "2025-01-06", EndDate: "2025-01-06"}}

	g, ok := layout.Geometry(0, bars[0])
	if !ok {
		t.Fatalf("Expected bar to be placeable")
	}
	if !approx(g.Coverage.Width(), geometry.MinSpan) {
		t.Fatalf("Expected width %v, got %v", geometry.MinSpan, g.Coverage.Width())
	}

	y := g.Coverage.Center().Y
	testCases := []struct {
		name string
		x    float64
		hit  bool
	}{
		{"left edge", 496, true},
		{"right edge", 504, true},
		{"centre", 500, true},
		{"just outside", 504.5, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, hit := layout.HitTest(bars, tc.x, y)
			if hit != tc.hit {
				t.Errorf("Expected hit=%v at x=%v, got %v", tc.hit, tc.x, hit)
			}
		})
	}

	// an open end date behaves like start == end
	g2, _ := layout.Geometry(0, entities.CoverageBar{StartDate: "2025-01-06"})
	if g2.Coverage != g.Coverage {
		t.Errorf("Expected open-ended bar to match the zero-width bar, got %+v", g2.Coverage)
	}
}

func TestCoverageLayout_DrawAndHitTestAgree(t *testing.T) {
	layout := newLayout()
	bars := []entities.CoverageBar{
		{StartDate: "2025-01-02", EndDate: "2025-01-04", SupplyQty: decimal.NewFromInt(40)},
		{StartDate: "2025-01-05", EndDate: "2025-01-05", SupplyQty: decimal.NewFromInt(5),
			OrderStartDate: "2025-01-01", OrderEndDate: "2025-01-04"},
		{StartDate: "not a date", SupplyQty: decimal.NewFromInt(1)},
		{StartDate: "2025-01-03", EndDate: "2025-01-10", SupplyQty: decimal.NewFromInt(12)},
	}

	rec := canvas.NewRecorder(1000, 400)
	layout.Draw(rec, bars, canvas.FixedMeasurer{Advance: 0.6}, DefaultStyle())
	rects := rec.Filter("rect", "coverage")

	// three placeable bars, one with an order window
	if len(rects) != 4 {
		t.Fatalf("Expected 4 drawn rectangles, got %d", len(rects))
	}

	for _, op := range rects {
		center := op.Rect.Center()
		idx, ok := layout.HitTest(bars, center.X, center.Y)
		if !ok {
			t.Errorf("Expected drawn rect %+v to hit-test", op.Rect)
			continue
		}
		g, _ := layout.Geometry(idx, bars[idx])
		if op.Rect != g.Coverage && !(g.HasOrder && op.Rect == g.Order) {
			t.Errorf("Expected rect %+v to belong to bar %d", op.Rect, idx)
		}
		for _, corner := range []geometry.Point{{X: op.Rect.X0, Y: op.Rect.Y0}, {X: op.Rect.X1, Y: op.Rect.Y1}} {
			if j, ok := layout.HitTest(bars, corner.X, corner.Y); !ok || j != idx {
				t.Errorf("Expected corner %+v to hit bar %d, got %d (ok=%v)", corner, idx, j, ok)
			}
		}
	}

	if _, ok := layout.HitTest(bars, 990, 60); ok {
		t.Errorf("Expected no hit in empty space")
	}
}

func TestCoverageLayout_UnplaceableBarSkipped(t *testing.T) {
	layout := NewCoverageLayout(axis.NewCategory(nil, 0, 1000), DefaultLayout(0))
	bars := []entities.CoverageBar{{StartDate: "2025-01-02"}}

	if _, ok := layout.Geometry(0, bars[0]); ok {
		t.Errorf("Expected no geometry without axis labels")
	}
	rec := canvas.NewRecorder(1000, 400)
	layout.Draw(rec, bars, nil, DefaultStyle())
	if len(rec.Filter("rect", "")) != 0 {
		t.Errorf("Expected nothing drawn")
	}
}

func TestCoverageLayout_OrderWindowNeedsBothDates(t *testing.T) {
	g, ok := newLayout().Geometry(0, entities.CoverageBar{StartDate: "2025-01-03", OrderStartDate: "2025-01-01"})
	if !ok {
		t.Fatalf("Expected bar to be placeable")
	}
	if g.HasOrder {
		t.Errorf("Expected no order rectangle with a single order date")
	}

	g, _ = newLayout().Geometry(0, entities.CoverageBar{StartDate: "2025-01-03", OrderStartDate: "2025-01-01", OrderEndDate: "later"})
	if g.HasOrder {
		t.Errorf("Expected no order rectangle when an order date cannot be mapped")
	}
}

func TestCoverageLayout_TickPositions(t *testing.T) {
	layout := newLayout()
	bar := entities.CoverageBar{
		StartDate: "2025-01-03",
		EndDate:   "2025-01-05",
		TrackedDemand: []entities.TrackedDemand{
			{Date: "2025-01-04", Qty: decimal.NewFromInt(2), Source: "SO101"},
			{Date: "2025-01-08", Qty: decimal.NewFromInt(3), Source: "SO100"},
			{Date: "2025-01-03", Qty: decimal.NewFromInt(1), Source: "SO102"},
			{Date: "undated", Qty: decimal.NewFromInt(1), Source: "SO103"},
		},
	}

	g, _ := layout.Geometry(0, bar)
	ticks := layout.TickPositions(g, bar)
	if len(ticks) != 1 || !approx(ticks[0], 300) {
		t.Fatalf("Expected a single tick at 300, got %v", ticks)
	}

	rec := canvas.NewRecorder(1000, 400)
	layout.Draw(rec, []entities.CoverageBar{bar}, nil, DefaultStyle())
	tickLines := 0
	for _, op := range rec.Filter("line", "coverage") {
		if op.Stroke.Color == DefaultStyle().Tick.Color {
			tickLines++
			if approx(op.Points[0].X, 700) {
				t.Errorf("Expected no tick for the out-of-span demand")
			}
		}
	}
	if tickLines != 1 {
		t.Errorf("Expected 1 tick line, got %d", tickLines)
	}
}

func TestCoverageLayout_LabelsOnlyWhenTheyFit(t *testing.T) {
	layout := newLayout()
	measurer := canvas.FixedMeasurer{Advance: 0.6}
	bars := []entities.CoverageBar{
		{StartDate: "2025-01-06", SupplyQty: decimal.NewFromInt(1500)},
		{StartDate: "2025-01-02", EndDate: "2025-01-09", SupplyQty: decimal.NewFromInt(1500),
			OrderStartDate: "2025-01-06", OrderEndDate: "2025-01-06"},
	}

	rec := canvas.NewRecorder(1000, 400)
	layout.Draw(rec, bars, measurer, DefaultStyle())

	texts := rec.Texts()
	if len(texts) != 1 || texts[0] != "1,500" {
		t.Errorf("Expected only the wide bar's quantity label, got %v", texts)
	}
}

func TestCoverageLayout_HitTestDoesNotAllocate(t *testing.T) {
	layout := newLayout()
	bars := []entities.CoverageBar{
		{StartDate: "2025-01-02", EndDate: "2025-01-04", OrderStartDate: "2025-01-01", OrderEndDate: "2025-01-02"},
		{StartDate: "2025-01-05", EndDate: "2025-01-09"},
	}

	allocs := testing.AllocsPerRun(100, func() {
		layout.HitTest(bars, 600, 110)
		layout.HitTest(bars, 5, 5)
	})
	if allocs != 0 {
		t.Errorf("Expected no allocations per hit-test, got %v", allocs)
	}
}

type fakeLocator map[entities.Category]map[int]geometry.Point

func (f fakeLocator) Locate(c entities.Category, entryNo int) (geometry.Point, bool) {
	p, ok := f[c][entryNo]
	return p, ok
}

func TestTrackingLines(t *testing.T) {
	loc := fakeLocator{
		entities.CategorySupply:             {5: {X: 10, Y: 10}},
		entities.CategoryPendingRequisition: {6: {X: 20, Y: 20}},
		entities.CategoryDemand:             {9: {X: 90, Y: 90}, 5: {X: 55, Y: 55}},
		entities.CategoryForecast:           {11: {X: 110, Y: 110}},
	}
	allVisible := func(entities.Category) bool { return true }

	testCases := []struct {
		name     string
		pairs    []entities.TrackingPair
		visible  Visibility
		expected []geometry.Segment
	}{
		{
			name:     "resolved pair",
			pairs:    []entities.TrackingPair{{SupplyEntryNo: 5, DemandEntryNo: 9}},
			visible:  allVisible,
			expected: []geometry.Segment{{From: geometry.Point{X: 10, Y: 10}, To: geometry.Point{X: 90, Y: 90}}},
		},
		{
			name:    "hidden demand category",
			pairs:   []entities.TrackingPair{{SupplyEntryNo: 5, DemandEntryNo: 9}},
			visible: func(c entities.Category) bool { return c != entities.CategoryDemand },
		},
		{
			name:    "supply id only found on the demand side",
			pairs:   []entities.TrackingPair{{SupplyEntryNo: 9, DemandEntryNo: 11}},
			visible: allVisible,
		},
		{
			name:     "pending supply to forecast",
			pairs:    []entities.TrackingPair{{SupplyEntryNo: 6, DemandEntryNo: 11}},
			visible:  allVisible,
			expected: []geometry.Segment{{From: geometry.Point{X: 20, Y: 20}, To: geometry.Point{X: 110, Y: 110}}},
		},
		{
			name:    "unknown entry",
			pairs:   []entities.TrackingPair{{SupplyEntryNo: 99, DemandEntryNo: 9}},
			visible: allVisible,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			segments := TrackingLines(tc.pairs, loc, tc.visible)
			if len(segments) != len(tc.expected) {
				t.Fatalf("Expected %d segments, got %d", len(tc.expected), len(segments))
			}
			for i := range segments {
				if segments[i] != tc.expected[i] {
					t.Errorf("Expected %+v, got %+v", tc.expected[i], segments[i])
				}
			}
		})
	}
}

func TestDrawTracking(t *testing.T) {
	rec := canvas.NewRecorder(100, 100)
	DrawTracking(rec, []geometry.Segment{{To: geometry.Point{X: 5, Y: 5}}}, DefaultStyle())

	lines := rec.Filter("line", "tracking")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 tracking line, got %d", len(lines))
	}
	if len(lines[0].Stroke.Dash) == 0 {
		t.Errorf("Expected a dashed stroke")
	}
}

func TestCoverageTooltip(t *testing.T) {
	bar := entities.CoverageBar{
		StartDate:      "2025-01-03",
		EndDate:        "2025-01-05",
		SupplyQty:      decimal.NewFromInt(40),
		ActionMessage:  "New",
		OrderStartDate: "2025-01-01",
		OrderEndDate:   "2025-01-03",
		TrackedDemand:  []entities.TrackedDemand{{Date: "2025-01-04", Qty: decimal.NewFromInt(3), Source: "SO100"}},
		UntrackedElements: []entities.UntrackedElement{
			{Source: "Safety Stock", Qty: decimal.NewFromInt(10)},
		},
	}

	tip := CoverageTooltip(bar)
	if tip.Title != "Supply: 40" {
		t.Errorf("Expected title %q, got %q", "Supply: 40", tip.Title)
	}
	expected := []string{
		"Action: New",
		"Order: Jan 1 – Jan 3",
		"Coverage: Jan 3 – Jan 5",
		"Covers:",
		"  SO100 (Jan 4): 3",
		"Untracked:",
		"  Safety Stock: 10",
	}
	if len(tip.Lines) != len(expected) {
		t.Fatalf("Expected %d lines, got %d: %v", len(expected), len(tip.Lines), tip.Lines)
	}
	for i := range expected {
		if tip.Lines[i] != expected[i] {
			t.Errorf("Line %d: expected %q, got %q", i, expected[i], tip.Lines[i])
		}
	}
}

func TestPlaceTooltip_ClampedInsideCanvas(t *testing.T) {
	tip := Tooltip{Title: "Supply: 40", Lines: []string{"Coverage: Jan 3"}}
	style := DefaultStyle()
	m := canvas.FixedMeasurer{Advance: 0.6}

	box := PlaceTooltip(tip, geometry.Point{X: 10, Y: 10}, 400, 300, m, style)
	if !approx(box.X0, 22) || !approx(box.Y0, 22) {
		t.Errorf("Expected box at pointer + offset (22, 22), got (%v, %v)", box.X0, box.Y0)
	}

	box = PlaceTooltip(tip, geometry.Point{X: 395, Y: 295}, 400, 300, m, style)
	if box.X1 > 400+1e-9 || box.Y1 > 300+1e-9 {
		t.Errorf("Expected box inside the canvas, got %+v", box)
	}

	rec := canvas.NewRecorder(400, 300)
	DrawTooltip(rec, tip, box, style)
	texts := rec.Texts()
	if len(texts) != 2 || texts[0] != tip.Title {
		t.Errorf("Expected title and one line drawn, got %v", texts)
	}
}
