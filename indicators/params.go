package indicators

// Params carries every indicator parameter for one computation call.
// It is passed by value so a caller can run assets concurrently without
// sharing mutable configuration.
type Params struct {
	EMAPeriods []int
	SMAPeriods []int

	RSIPeriod int

	MACDFast   int
	MACDSlow   int
	MACDSignal int

	BollingerPeriod int
	BollingerK      float64

	ATRPeriod int
	ADXPeriod int

	OBVEMAPeriod   int
	VolumeMAPeriod int
}

// DefaultParams returns the standard parameter set: EMA/SMA 20/50/200,
// RSI 14, MACD 12/26/9, Bollinger 20 with 2 standard deviations, ATR 14,
// ADX 14, OBV smoothing 20.
func DefaultParams() Params {
	return Params{
		EMAPeriods:      []int{20, 50, 200},
		SMAPeriods:      []int{20, 50, 200},
		RSIPeriod:       14,
		MACDFast:        12,
		MACDSlow:        26,
		MACDSignal:      9,
		BollingerPeriod: 20,
		BollingerK:      2.0,
		ATRPeriod:       14,
		ADXPeriod:       14,
		OBVEMAPeriod:    20,
		VolumeMAPeriod:  20,
	}
}
