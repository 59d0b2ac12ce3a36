package axis

import "math"

// Linear maps balances onto vertical pixels; larger values sit higher.
type Linear struct {
	min, max    float64
	top, bottom float64
	step        float64
}

// NewLinear builds a value axis covering values with a "nice" rounded range.
// ticks is the approximate number of gridlines wanted.
func NewLinear(values []float64, top, bottom float64, ticks int) *Linear {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		lo, hi = 0, 1
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	if ticks < 2 {
		ticks = 2
	}

	step := niceNum((hi-lo)/float64(ticks-1))
	return &Linear{
		min:    math.Floor(lo/step) * step,
		max:    math.Ceil(hi/step) * step,
		top:    top,
		bottom: bottom,
		step:   step,
	}
}

// Range returns the rounded value range
func (l *Linear) Range() (float64, float64) {
	return l.min, l.max
}

// PixelForValue maps v to a vertical pixel
func (l *Linear) PixelForValue(v float64) float64 {
	return l.bottom - (v-l.min)/(l.max-l.min)*(l.bottom-l.top)
}

// Ticks returns the gridline values from min to max
func (l *Linear) Ticks() []float64 {
	var ticks []float64
	for v := l.min; v <= l.max+l.step/2; v += l.step {
		// +0 folds -0 away
		ticks = append(ticks, math.Round(v/l.step)*l.step+0)
	}
	return ticks
}

// niceNum rounds x to 1, 2, 5 or 10 times a power of ten
func niceNum(x float64) float64 {
	if x <= 0 {
		return 1
	}
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case f < 1.5:
		nf = 1
	case f < 3:
		nf = 2
	case f < 7:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}
