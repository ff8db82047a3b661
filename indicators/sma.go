package indicators

// SMA computes the simple moving average over a trailing window of
// period values. Slots before index period-1 are undefined.
func SMA(values []float64, period int) []Value {
	out := make([]Value, len(values))
	if period < 1 || len(values) < period {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = Def(sum / float64(period))
		}
	}
	return out
}
