package indicators

import "math"

// RSI computes the Relative Strength Index using Wilder smoothing with
// alpha = 1/period (not the 2/(period+1) span convention the other
// smoothed indicators use; the asymmetry is deliberate). The smoothing
// seeds with zero gain and zero loss at index 0, where the close delta
// does not exist. Slots where both averages are still zero, meaning the
// price has not moved yet, are undefined; a zero average loss with
// positive gains saturates at 100.
func RSI(values []float64, period int) []Value {
	out := make([]Value, len(values))
	if period < 1 || len(values) == 0 {
		return out
	}
	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		gain := math.Max(delta, 0)
		loss := math.Max(-delta, 0)
		avgGain = gain*alpha + avgGain*(1-alpha)
		avgLoss = loss*alpha + avgLoss*(1-alpha)

		switch {
		case avgGain == 0 && avgLoss == 0:
			// no movement yet
		case avgLoss == 0:
			out[i] = Def(100)
		default:
			rs := avgGain / avgLoss
			out[i] = Def(100 - 100/(1+rs))
		}
	}
	return out
}
