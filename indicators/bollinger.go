package indicators

import "math"

// Bollinger computes the Bollinger bands over values: middle band (SMA),
// upper/lower at k trailing sample standard deviations, %B (position of
// the value within the bands) and bandwidth. The sample deviation needs
// at least two points, so everything but the middle band is undefined
// for period < 2. %B is undefined when the bands collapse to zero width
// and bandwidth when the middle band is zero.
func Bollinger(values []float64, period int, k float64) (upper, middle, lower, percentB, bandwidth []Value) {
	n := len(values)
	upper = make([]Value, n)
	lower = make([]Value, n)
	percentB = make([]Value, n)
	bandwidth = make([]Value, n)

	middle = SMA(values, period)
	if period < 2 {
		return upper, middle, lower, percentB, bandwidth
	}

	for i := period - 1; i < n; i++ {
		if !middle[i].Defined {
			continue
		}
		mean := middle[i].F
		var ss float64
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		sigma := math.Sqrt(ss / float64(period-1))

		up := mean + k*sigma
		lo := mean - k*sigma
		upper[i] = Def(up)
		lower[i] = Def(lo)

		if up != lo {
			percentB[i] = Def((values[i] - lo) / (up - lo))
		}
		if mean != 0 {
			bandwidth[i] = Def((up - lo) / mean)
		}
	}
	return upper, middle, lower, percentB, bandwidth
}
