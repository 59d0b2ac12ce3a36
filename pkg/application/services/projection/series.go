// Package projection turns projection points into step series and colours the
// suggested series against the item's thresholds.
package projection

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/planviz/pkg/domain/entities"
)

// Level is the threshold state of a projected balance
type Level int

const (
	LevelNormal Level = iota
	LevelWarning
	LevelCritical
)

// String method for Level enum
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "normal"
	}
}

// LevelFor classifies a balance: below safety stock is critical, below the
// reorder point is a warning.
func LevelFor(value decimal.Decimal, th entities.Threshold) Level {
	switch {
	case value.LessThan(th.SafetyStock):
		return LevelCritical
	case value.LessThan(th.ReorderPoint):
		return LevelWarning
	default:
		return LevelNormal
	}
}

// Vertex is a corner of a step line in data space
type Vertex struct {
	Date  string
	Value decimal.Decimal
}

// Segment is the step between two consecutive points. It carries the arriving
// point's value, so a change at date D is drawn at D.
type Segment struct {
	FromDate string
	ToDate   string
	Value    decimal.Decimal
	Level    Level
}

// Series is one projection variant ready to draw
type Series struct {
	Variant  entities.Variant
	Points   []entities.ProjectionPoint
	Segments []Segment
	// Colored is set for the series whose segments take threshold colours
	Colored bool
}

// Build emits a step series for every variant with at least one point. Only
// the after-suggestions series is threshold-coloured.
func Build(payload *entities.ChartPayload) []Series {
	var series []Series
	for _, v := range entities.Variants {
		points := payload.Projection(v)
		if len(points) == 0 {
			continue
		}
		series = append(series, buildSeries(v, points, payload.Thresholds, v == entities.VariantAfter))
	}
	return series
}

func buildSeries(v entities.Variant, points []entities.ProjectionPoint, th entities.Threshold, colored bool) Series {
	s := Series{
		Variant: v,
		Points:  points,
		Colored: colored,
	}
	if len(points) > 1 {
		s.Segments = make([]Segment, 0, len(points)-1)
	}
	for i := 1; i < len(points); i++ {
		seg := Segment{
			FromDate: points[i-1].Date,
			ToDate:   points[i].Date,
			Value:    points[i].Balance,
		}
		if colored {
			seg.Level = LevelFor(points[i].Balance, th)
		}
		s.Segments = append(s.Segments, seg)
	}
	return s
}

// StepVertices expands the points into step-before corners:
// p0, (d0, v1), p1, (d1, v2), p2 ...
func (s Series) StepVertices() []Vertex {
	if len(s.Points) == 0 {
		return nil
	}
	vertices := make([]Vertex, 0, 2*len(s.Points)-1)
	vertices = append(vertices, Vertex{Date: s.Points[0].Date, Value: s.Points[0].Balance})
	for i := 1; i < len(s.Points); i++ {
		vertices = append(vertices,
			Vertex{Date: s.Points[i-1].Date, Value: s.Points[i].Balance},
			Vertex{Date: s.Points[i].Date, Value: s.Points[i].Balance},
		)
	}
	return vertices
}

// ValueAt returns the series value in effect at the point with the given date
func (s Series) ValueAt(date string) (decimal.Decimal, bool) {
	for _, p := range s.Points {
		if p.Date == date {
			return p.Balance, true
		}
	}
	return decimal.Zero, false
}
