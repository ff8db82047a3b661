// Package rank builds comparative views across assets: momentum, volume
// and volatility rankings derived from each asset's indicator frame.
package rank

import (
	"math"
	"sort"

	"coinscope/indicators"
)

// Metrics are the per-asset aggregates the rankings order by.
type Metrics struct {
	Asset         string
	ChangePct     float64
	VolatilityPct float64
	MeanVolume    float64
}

// Compute derives metrics for every rankable asset. Assets with fewer
// than two candles, or a non-positive opening close, cannot be ranked
// and are left out; the rest of the run is unaffected. The result is
// sorted by asset identifier.
func Compute(frames map[string]*indicators.Frame) []Metrics {
	out := make([]Metrics, 0, len(frames))
	for asset, f := range frames {
		if f == nil || f.Series.Len() < 2 {
			continue
		}
		closes := f.Series.Closes()
		first, last := closes[0], closes[len(closes)-1]
		if first <= 0 {
			continue
		}

		mean := meanOf(closes)
		volatility := 0.0
		if mean > 0 {
			volatility = sampleStddev(closes, mean) / mean * 100
		}

		out = append(out, Metrics{
			Asset:         asset,
			ChangePct:     (last - first) / first * 100,
			VolatilityPct: volatility,
			MeanVolume:    meanOf(f.Series.Volumes()),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	return out
}

// Momentum ranks assets by percentage change, best first.
func Momentum(ms []Metrics) []string {
	return ranked(ms, func(a, b Metrics) bool { return a.ChangePct > b.ChangePct })
}

// Volume ranks assets by mean volume, highest first.
func Volume(ms []Metrics) []string {
	return ranked(ms, func(a, b Metrics) bool { return a.MeanVolume > b.MeanVolume })
}

// Volatility ranks assets by volatility, calmest first.
func Volatility(ms []Metrics) []string {
	return ranked(ms, func(a, b Metrics) bool { return a.VolatilityPct < b.VolatilityPct })
}

// ranked orders by the given comparison, breaking ties by asset
// identifier so repeated runs produce identical output.
func ranked(ms []Metrics, less func(a, b Metrics) bool) []string {
	s := append([]Metrics(nil), ms...)
	sort.Slice(s, func(i, j int) bool {
		if less(s[i], s[j]) != less(s[j], s[i]) {
			return less(s[i], s[j])
		}
		return s[i].Asset < s[j].Asset
	})
	out := make([]string, len(s))
	for i, m := range s {
		out[i] = m.Asset
	}
	return out
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
