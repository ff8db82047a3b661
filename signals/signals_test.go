package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"coinscope/indicators"
	"coinscope/market"
)

func frameOfLen(n int) *indicators.Frame {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]market.Candle, n)
	for i := range candles {
		candles[i] = market.Candle{
			Time: base.Add(time.Duration(i) * time.Hour),
			Open: 10, High: 11, Low: 9, Close: 10,
			Volume: 100,
		}
	}
	return indicators.NewFrame(&market.Series{
		Asset:       "testcoin",
		Granularity: market.Granularity1h,
		Candles:     candles,
	})
}

func column(vals ...indicators.Value) []indicators.Value { return vals }

func def(f float64) indicators.Value { return indicators.Def(f) }

func undef() indicators.Value { return indicators.Value{} }

func TestRSIStates(t *testing.T) {
	p := indicators.DefaultParams()

	cases := []struct {
		rsi  float64
		want string
	}{
		{71.2, Overbought},
		{29.9, Oversold},
		{50.0, Neutral},
		{70.0, Neutral},
		{30.0, Neutral},
	}
	for _, tc := range cases {
		f := frameOfLen(1)
		f.Add("rsi_14", column(def(tc.rsi)))
		assert.Equal(t, tc.want, Classify(f, p).RSIState, "rsi=%v", tc.rsi)
	}
}

func TestRSIUndefinedGivesNoSignal(t *testing.T) {
	f := frameOfLen(1)
	f.Add("rsi_14", column(undef()))
	assert.Empty(t, Classify(f, indicators.DefaultParams()).RSIState)
}

func TestMACDBullishCross(t *testing.T) {
	f := frameOfLen(3)
	f.Add("macd_histogram", column(def(-0.5), def(-0.1), def(0.3)))
	assert.Equal(t, BullishCross, Classify(f, indicators.DefaultParams()).MACDState)
}

func TestMACDBearishCross(t *testing.T) {
	f := frameOfLen(3)
	f.Add("macd_histogram", column(def(0.5), def(0.1), def(-0.3)))
	assert.Equal(t, BearishCross, Classify(f, indicators.DefaultParams()).MACDState)
}

func TestMACDNoFlipIsNeutral(t *testing.T) {
	f := frameOfLen(2)
	f.Add("macd_histogram", column(def(0.1), def(0.3)))
	assert.Equal(t, Neutral, Classify(f, indicators.DefaultParams()).MACDState)
}

func TestMACDNeedsTwoPoints(t *testing.T) {
	f := frameOfLen(1)
	f.Add("macd_histogram", column(def(0.3)))
	assert.Equal(t, Neutral, Classify(f, indicators.DefaultParams()).MACDState)

	f = frameOfLen(2)
	f.Add("macd_histogram", column(undef(), def(0.3)))
	assert.Equal(t, Neutral, Classify(f, indicators.DefaultParams()).MACDState)

	f = frameOfLen(2)
	f.Add("macd_histogram", column(def(0.3), undef()))
	assert.Empty(t, Classify(f, indicators.DefaultParams()).MACDState)
}

func TestEMACross(t *testing.T) {
	p := indicators.DefaultParams()

	f := frameOfLen(1)
	f.Add("ema_50", column(def(105)))
	f.Add("ema_200", column(def(100)))
	assert.Equal(t, Above, Classify(f, p).EMACross)

	f = frameOfLen(1)
	f.Add("ema_50", column(def(95)))
	f.Add("ema_200", column(def(100)))
	assert.Equal(t, Below, Classify(f, p).EMACross)

	f = frameOfLen(1)
	f.Add("ema_50", column(def(95)))
	f.Add("ema_200", column(undef()))
	assert.Empty(t, Classify(f, p).EMACross)
}

func TestBollingerStates(t *testing.T) {
	p := indicators.DefaultParams()

	cases := []struct {
		percentB float64
		want     string
	}{
		{1.2, AboveBand},
		{-0.1, BelowBand},
		{0.5, Inside},
		{1.0, Inside},
		{0.0, Inside},
	}
	for _, tc := range cases {
		f := frameOfLen(1)
		f.Add("bb_percent_b", column(def(tc.percentB)))
		assert.Equal(t, tc.want, Classify(f, p).BBState, "%%B=%v", tc.percentB)
	}
}

func TestTrendStrength(t *testing.T) {
	p := indicators.DefaultParams()

	f := frameOfLen(1)
	f.Add("adx_14", column(def(26.0)))
	assert.Equal(t, Strong, Classify(f, p).TrendStrength)

	f = frameOfLen(1)
	f.Add("adx_14", column(def(20.0)))
	assert.Equal(t, Weak, Classify(f, p).TrendStrength)
}

func TestOBVTrend(t *testing.T) {
	p := indicators.DefaultParams()

	f := frameOfLen(6)
	f.Add("obv", column(def(0), def(10), def(20), def(30), def(40), def(50)))
	assert.Equal(t, Up, Classify(f, p).OBVTrend, "compares window start vs end, not series start")

	f = frameOfLen(5)
	f.Add("obv", column(def(50), def(40), def(30), def(20), def(10)))
	assert.Equal(t, Down, Classify(f, p).OBVTrend)

	f = frameOfLen(5)
	f.Add("obv", column(def(10), def(20), def(30), def(20), def(10)))
	assert.Equal(t, Flat, Classify(f, p).OBVTrend)

	f = frameOfLen(5)
	f.Add("obv", column(undef(), undef(), undef(), undef(), def(10)))
	assert.Empty(t, Classify(f, p).OBVTrend, "needs two defined points")
}

func TestMissingColumnsYieldEmptySet(t *testing.T) {
	f := frameOfLen(3)
	assert.Equal(t, Set{}, Classify(f, indicators.DefaultParams()))
}
