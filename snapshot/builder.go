package snapshot

import (
	"fmt"
	"math"
	"sort"
	"time"

	"coinscope/indicators"
	"coinscope/market"
	"coinscope/rank"
	"coinscope/signals"
)

// historyLen is how many trailing candles the history arrays keep.
const historyLen = 12

// Input carries everything BuildHorizon needs for one horizon run.
type Input struct {
	Horizon     string
	Granularity string
	Now         time.Time

	Frames  map[string]*indicators.Frame
	Signals map[string]signals.Set
	Quotes  map[string]market.Quote
	Params  indicators.Params

	// Prev is the previously persisted payload for this horizon, nil on
	// a cold start. Section timestamps are carried over from it when the
	// section is not refreshed.
	Prev *HorizonPayload

	IncludeHistory   bool
	IncludeLongStats bool
}

// BuildHorizon assembles the snapshot payload for one horizon.
func BuildHorizon(in Input) *HorizonPayload {
	metrics := rank.Compute(in.Frames)

	p := &HorizonPayload{
		Meta: Meta{
			RunAt:       in.Now,
			Horizon:     in.Horizon,
			Granularity: in.Granularity,
			Coins:       assetNames(in.Frames),
			HistoryAt:   sectionTime(in.Now, in.IncludeHistory, prevHistoryAt(in.Prev)),
			LongStatsAt: sectionTime(in.Now, in.IncludeLongStats, prevLongStatsAt(in.Prev)),
		},
		CrossAsset: CrossAsset{
			TopMomentum:      rank.Momentum(metrics),
			TopVolume:        rank.Volume(metrics),
			LowestVolatility: rank.Volatility(metrics),
		},
		Coins: make(map[string]*CoinEntry, len(in.Frames)),
	}

	for asset, f := range in.Frames {
		if f.Series.Len() == 0 {
			continue
		}
		quote, hasQuote := in.Quotes[asset]
		p.Coins[asset] = buildCoin(f, in.Signals[asset], quote, hasQuote, in.Params, in.IncludeHistory)
	}
	return p
}

func buildCoin(f *indicators.Frame, sig signals.Set, quote market.Quote, hasQuote bool, params indicators.Params, includeHistory bool) *CoinEntry {
	lastClose := f.Series.Candles[f.Series.Len()-1].Close

	e := &CoinEntry{
		Price:       lastClose,
		PriceSource: "candle_close",
		Signals:     sig,
	}
	if hasQuote && quote.Price > 0 {
		e.Price = quote.Price
		e.PriceSource = "spot"
		e.MarketCapUSD = quote.MarketCap
		e.Volume24hUSD = quote.Volume24h
	}

	e.PctChange = pctChanges(f.Series, e.Price, quote, hasQuote)

	e.RSI = f.Latest(fmt.Sprintf("rsi_%d", params.RSIPeriod)).Ptr()
	e.MACDHist = f.Latest("macd_histogram").Ptr()
	e.PercentB = f.Latest("bb_percent_b").Ptr()
	e.ADX = f.Latest(fmt.Sprintf("adx_%d", params.ADXPeriod)).Ptr()

	if atr := f.Latest(fmt.Sprintf("atr_%d", params.ATRPeriod)); atr.Defined && lastClose > 0 {
		pct := math.Round(atr.F/lastClose*100*100) / 100
		e.ATRPct = &pct
	}

	if includeHistory {
		e.PriceHistory = priceHistory(f.Series)
		e.IndicatorHistory = indicatorHistory(f, params)
	}
	return e
}

// pctChanges computes percentage changes over fixed windows from the
// candle series, preferring the markets endpoint's own 24h figure when
// a quote is available. Windows longer than the series fall back to the
// full available window.
func pctChanges(s *market.Series, current float64, quote market.Quote, hasQuote bool) map[string]float64 {
	out := make(map[string]float64)
	if hasQuote && quote.Change24hPct != 0 {
		out["24h"] = quote.Change24hPct
	}
	if s.Len() < 2 || current <= 0 {
		if len(out) == 0 {
			return nil
		}
		return out
	}

	perDay := int(24 * time.Hour / market.GranularityDuration(s.Granularity))

	if s.Granularity == market.Granularity1h {
		if ref := closeAgo(s, 1); ref > 0 {
			out["1h"] = (current - ref) / ref * 100
		}
	}
	if _, ok := out["24h"]; !ok {
		ref := closeAgo(s, perDay)
		if ref <= 0 {
			ref = s.Candles[0].Close
		}
		if ref > 0 {
			out["24h"] = (current - ref) / ref * 100
		}
	}
	if s.Len() > 7*perDay {
		if ref := closeAgo(s, 7*perDay); ref > 0 {
			out["7d"] = (current - ref) / ref * 100
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// closeAgo returns the close n candles before the last one, or 0 when
// the series is too short.
func closeAgo(s *market.Series, n int) float64 {
	i := s.Len() - 1 - n
	if i < 0 {
		return 0
	}
	return s.Candles[i].Close
}

func priceHistory(s *market.Series) []PricePoint {
	start := s.Len() - historyLen
	if start < 0 {
		start = 0
	}
	out := make([]PricePoint, 0, s.Len()-start)
	for _, c := range s.Candles[start:] {
		out = append(out, PricePoint{Time: c.Time, Close: c.Close})
	}
	return out
}

func indicatorHistory(f *indicators.Frame, params indicators.Params) map[string][]*float64 {
	out := make(map[string][]*float64)
	for _, name := range []string{fmt.Sprintf("rsi_%d", params.RSIPeriod), "macd_histogram"} {
		col := f.Column(name)
		if col == nil {
			continue
		}
		start := len(col) - historyLen
		if start < 0 {
			start = 0
		}
		vals := make([]*float64, 0, len(col)-start)
		for _, v := range col[start:] {
			vals = append(vals, v.Ptr())
		}
		out[name] = vals
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// sectionTime stamps a refreshed section with now and otherwise carries
// the previous stamp forward.
func sectionTime(now time.Time, refreshed bool, prev *time.Time) *time.Time {
	if refreshed {
		t := now
		return &t
	}
	return prev
}

func prevHistoryAt(prev *HorizonPayload) *time.Time {
	if prev == nil {
		return nil
	}
	return prev.Meta.HistoryAt
}

func prevLongStatsAt(prev *HorizonPayload) *time.Time {
	if prev == nil {
		return nil
	}
	return prev.Meta.LongStatsAt
}

func assetNames(frames map[string]*indicators.Frame) []string {
	names := make([]string, 0, len(frames))
	for name := range frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
