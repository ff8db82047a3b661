package indicators

import (
	"math"

	"coinscope/market"
)

// ADX computes the Average Directional Index and its components.
//
// Directional movement compares consecutive high and low deltas: +DM is
// the high delta when it exceeds the low delta and is positive, -DM the
// low delta symmetrically. +DM, -DM and the true range are smoothed
// with the EMA recurrence (span = period), the directional indicators
// are 100 * smoothed DM / smoothed TR, DX is 100 * |+DI - -DI| /
// (+DI + -DI), and ADX is the EMA of DX. Slots with a zero smoothed TR
// or a zero DI sum are undefined rather than zero.
func ADX(s *market.Series, period int) (adx, plusDI, minusDI, dx []Value) {
	n := s.Len()
	plusDM := make([]Value, n)
	minusDM := make([]Value, n)
	for i := 1; i < n; i++ {
		highDiff := s.Candles[i].High - s.Candles[i-1].High
		lowDiff := s.Candles[i].Low - s.Candles[i-1].Low

		var pdm, mdm float64
		if highDiff > lowDiff && highDiff > 0 {
			pdm = highDiff
		}
		if lowDiff > highDiff && lowDiff > 0 {
			mdm = lowDiff
		}
		plusDM[i] = Def(pdm)
		minusDM[i] = Def(mdm)
	}

	trSmooth := emaSpan(TrueRange(s), period)
	pdmSmooth := emaSpan(plusDM, period)
	mdmSmooth := emaSpan(minusDM, period)

	plusDI = make([]Value, n)
	minusDI = make([]Value, n)
	dx = make([]Value, n)
	for i := 0; i < n; i++ {
		if !trSmooth[i].Defined || !pdmSmooth[i].Defined || !mdmSmooth[i].Defined {
			continue
		}
		if trSmooth[i].F == 0 {
			continue
		}
		pdi := 100 * pdmSmooth[i].F / trSmooth[i].F
		mdi := 100 * mdmSmooth[i].F / trSmooth[i].F
		plusDI[i] = Def(pdi)
		minusDI[i] = Def(mdi)

		if pdi+mdi == 0 {
			continue
		}
		dx[i] = Def(100 * math.Abs(pdi-mdi) / (pdi + mdi))
	}

	adx = emaSpan(dx, period)
	return adx, plusDI, minusDI, dx
}
