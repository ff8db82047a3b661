package indicators

// MACD computes the MACD line (fast EMA minus slow EMA), its signal
// line (EMA of the MACD line) and the histogram (line minus signal).
func MACD(values []float64, fast, slow, signal int) (line, signalLine, histogram []Value) {
	emaFast := EMA(values, fast)
	emaSlow := EMA(values, slow)

	line = make([]Value, len(values))
	for i := range values {
		if emaFast[i].Defined && emaSlow[i].Defined {
			line[i] = Def(emaFast[i].F - emaSlow[i].F)
		}
	}

	signalLine = emaSpan(line, signal)

	histogram = make([]Value, len(values))
	for i := range values {
		if line[i].Defined && signalLine[i].Defined {
			histogram[i] = Def(line[i].F - signalLine[i].F)
		}
	}
	return line, signalLine, histogram
}
