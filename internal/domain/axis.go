package domain

import "math"

// AxisPolicy holds the factors of the soft "zoom to interesting range" rule.
type AxisPolicy struct {
	Headroom    float64 // fraction of max added above the largest value
	ClampFactor float64 // lower bound drops to 0 when min - max*ClampFactor < 0
	Margin      float64 // fraction of max subtracted below the smallest value
}

// DefaultAxisPolicy returns the 5% headroom, 10% clamp, 5% margin policy.
func DefaultAxisPolicy() AxisPolicy {
	return AxisPolicy{Headroom: 0.05, ClampFactor: 0.1, Margin: 0.05}
}

// AxisRange is the value domain of the bar chart's value axis.
type AxisRange struct {
	Lower float64
	Upper float64
}

// ComputeAxisRange applies the policy to the defined values. With no defined
// values it returns the empty range [0, 0].
func ComputeAxisRange(values []float64, p AxisPolicy) AxisRange {
	first, second := math.Inf(-1), math.Inf(1)
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		first = math.Max(first, v)
		second = math.Min(second, v)
	}
	if math.IsInf(first, -1) {
		return AxisRange{}
	}

	lower := second - first*p.Margin
	if second-first*p.ClampFactor < 0 {
		lower = 0
	}
	return AxisRange{
		Lower: lower,
		Upper: roundHalfUp(first + first*p.Headroom),
	}
}

// Span returns Upper - Lower.
func (r AxisRange) Span() float64 { return r.Upper - r.Lower }

// Scale maps v to a length in [0, extent] measured up from the lower bound.
// Missing values and degenerate ranges map to 0.
func (r AxisRange) Scale(v, extent float64) float64 {
	if IsMissing(v) || r.Span() <= 0 || extent <= 0 {
		return 0
	}
	h := (v - r.Lower) / r.Span() * extent
	return math.Max(0, math.Min(extent, h))
}

// Ticks returns round tick values inside the range, aiming for about count
// ticks, using 1-2-5 steps.
func (r AxisRange) Ticks(count int) []float64 {
	if count < 1 || r.Span() <= 0 {
		return nil
	}
	step := tickStep(r.Lower, r.Upper, count)
	if step <= 0 {
		return nil
	}
	// Sub-unit steps divide by the inverse step so 0.1 ticks print as 0.3, not 0.30000000000000004.
	if step < 1 {
		inv := math.Round(1 / step)
		start, stop := math.Ceil(r.Lower*inv), math.Floor(r.Upper*inv)
		ticks := make([]float64, 0, int(stop-start)+1)
		for i := start; i <= stop; i++ {
			ticks = append(ticks, i/inv)
		}
		return ticks
	}
	start, stop := math.Ceil(r.Lower/step), math.Floor(r.Upper/step)
	ticks := make([]float64, 0, int(stop-start)+1)
	for i := start; i <= stop; i++ {
		ticks = append(ticks, i*step)
	}
	return ticks
}

func tickStep(lo, hi float64, count int) float64 {
	raw := (hi - lo) / float64(count)
	power := math.Floor(math.Log10(raw))
	unit := math.Pow(10, power)
	switch e := raw / unit; {
	case e >= math.Sqrt(50):
		return unit * 10
	case e >= math.Sqrt(10):
		return unit * 5
	case e >= math.Sqrt(2):
		return unit * 2
	default:
		return unit
	}
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
