package indicators

// EMA computes the exponential moving average of values with smoothing
// alpha = 2/(period+1). The recurrence seeds from the first value, so
// every slot is defined; early values are less stable until roughly one
// period of data has been seen.
func EMA(values []float64, period int) []Value {
	out := make([]Value, len(values))
	if period < 1 || len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = Def(ema)
	for i := 1; i < len(values); i++ {
		ema = values[i]*alpha + ema*(1-alpha)
		out[i] = Def(ema)
	}
	return out
}

// emaSpan runs the same recurrence over a column whose leading slots may
// be undefined, seeding from the first defined input. Undefined slots
// after the seed are passed through without advancing the state.
func emaSpan(in []Value, period int) []Value {
	out := make([]Value, len(in))
	if period < 1 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	var ema float64
	started := false
	for i, v := range in {
		if !v.Defined {
			continue
		}
		if !started {
			ema = v.F
			started = true
		} else {
			ema = v.F*alpha + ema*(1-alpha)
		}
		out[i] = Def(ema)
	}
	return out
}
