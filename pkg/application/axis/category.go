// Package axis maps payload values onto screen pixels: dates onto a categorical
// time axis and balances onto a linear value axis.
package axis

import (
	"sort"
	"time"

	"github.com/vsinha/planviz/pkg/domain/entities"
	"github.com/vsinha/planviz/pkg/domain/geometry"
)

// DateMapper resolves a date to a horizontal pixel. ok is false when the date
// cannot be placed on the axis.
type DateMapper interface {
	PixelForDate(date string) (px float64, ok bool)
}

// Category is a categorical time axis. Labels are spread evenly across the plot
// width in the order given; they need not be chronological.
type Category struct {
	labels []string
	pixels []float64
	times  []time.Time
	parsed []bool
	index  map[string]int
}

// NewCategory lays labels out between left and right. A single label sits at the centre.
func NewCategory(labels []string, left, right float64) *Category {
	c := &Category{
		labels: append([]string(nil), labels...),
		pixels: make([]float64, len(labels)),
		times:  make([]time.Time, len(labels)),
		parsed: make([]bool, len(labels)),
		index:  make(map[string]int, len(labels)),
	}

	n := len(labels)
	for i, label := range c.labels {
		switch {
		case n == 1:
			c.pixels[i] = (left + right) / 2
		default:
			c.pixels[i] = left + float64(i)*(right-left)/float64(n-1)
		}
		c.times[i], c.parsed[i] = entities.ParseDate(label)
		if _, dup := c.index[label]; !dup {
			c.index[label] = i
		}
	}
	return c
}

var _ DateMapper = (*Category)(nil)

// Labels returns the axis labels in axis order
func (c *Category) Labels() []string {
	return c.labels
}

// Len is the number of labels
func (c *Category) Len() int {
	return len(c.labels)
}

// PixelForIndex returns the pixel of the i-th label
func (c *Category) PixelForIndex(i int) float64 {
	return c.pixels[i]
}

// PixelForDate returns the exact pixel of a known label, or interpolates by
// timestamp between the nearest labels on either side of date.
func (c *Category) PixelForDate(date string) (float64, bool) {
	if i, ok := c.index[date]; ok {
		return c.pixels[i], true
	}
	if len(c.labels) == 0 {
		return 0, false
	}
	t, ok := entities.ParseDate(date)
	if !ok {
		return 0, false
	}

	prev, next := -1, -1
	for i := range c.labels {
		if !c.parsed[i] {
			continue
		}
		lt := c.times[i]
		if !lt.After(t) && (prev < 0 || lt.After(c.times[prev])) {
			prev = i
		}
		if !lt.Before(t) && (next < 0 || lt.Before(c.times[next])) {
			next = i
		}
	}

	switch {
	case prev >= 0 && next >= 0 && !c.times[prev].Equal(c.times[next]):
		span := c.times[next].Sub(c.times[prev])
		frac := float64(t.Sub(c.times[prev])) / float64(span)
		return geometry.Interpolate(c.pixels[prev], c.pixels[next], frac), true
	case prev >= 0:
		return c.pixels[prev], true
	case next >= 0:
		return c.pixels[next], true
	default:
		return 0, false
	}
}

// CollectLabels gathers every distinct date the static layer plots: projection
// points of all variants and event dates. Labels are ordered chronologically;
// unparsable dates keep their first-seen order after the dated ones.
func CollectLabels(payload *entities.ChartPayload) []string {
	seen := make(map[string]bool)
	var labels []string
	add := func(date string) {
		if date == "" || seen[date] {
			return
		}
		seen[date] = true
		labels = append(labels, date)
	}

	for _, v := range entities.Variants {
		for _, p := range payload.Projection(v) {
			add(p.Date)
		}
	}
	for _, evt := range payload.Events {
		if evt.Type == entities.InitialInventory {
			continue
		}
		add(evt.Date)
	}

	sort.SliceStable(labels, func(i, j int) bool {
		ti, okI := entities.ParseDate(labels[i])
		tj, okJ := entities.ParseDate(labels[j])
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI:
			return true
		default:
			return false
		}
	})
	return labels
}
