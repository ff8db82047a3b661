// Package pipeline wires fetching, computation, classification, export
// and snapshot maintenance into one run.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"coinscope/config"
	"coinscope/exporter"
	"coinscope/indicators"
	"coinscope/market"
	"coinscope/pkg/id"
	"coinscope/signals"
	"coinscope/snapshot"
)

// Fetcher retrieves market data. Satisfied by fetch.Client.
type Fetcher interface {
	FetchOHLCV(ctx context.Context, coin, granularity string, lookbackDays int, now time.Time) (*market.Series, error)
	FetchMarkets(ctx context.Context, coins []string) (map[string]market.Quote, error)
}

// Pipeline runs the full analysis for the configured horizons.
type Pipeline struct {
	cfg       *config.Config
	fetcher   Fetcher
	store     *snapshot.Store
	exporters []exporter.Exporter
	log       zerolog.Logger
	now       func() time.Time
}

func New(cfg *config.Config, f Fetcher, store *snapshot.Store, exporters []exporter.Exporter, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		fetcher:   f,
		store:     store,
		exporters: exporters,
		log:       log,
		now:       time.Now,
	}
}

// allIndicators is what an empty indicators list in the config means.
var allIndicators = []string{"ema", "sma", "rsi", "macd", "bollinger", "atr", "adx", "obv"}

// backupRetention is how long timestamped snapshot backups are kept.
const backupRetention = 7 * 24 * time.Hour

// Run processes every configured horizon in name order. A failing
// horizon does not stop the others; the first error is returned after
// all horizons ran.
func (p *Pipeline) Run(ctx context.Context, forceHourly, forceDaily bool) error {
	names := make([]string, 0, len(p.cfg.Horizons))
	for name := range p.cfg.Horizons {
		names = append(names, name)
	}
	sort.Strings(names)

	var firstErr error
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.RunHorizon(ctx, name, forceHourly, forceDaily); err != nil {
			p.log.Error().Err(err).Str("horizon", name).Msg("horizon failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RunHorizon processes a single horizon: fetch every coin, compute
// indicators, classify signals, export, and update the snapshot. A coin
// that fails to fetch or compute is logged and skipped; the horizon
// fails only when no coin survives.
func (p *Pipeline) RunHorizon(ctx context.Context, name string, forceHourly, forceDaily bool) error {
	horizon, ok := p.cfg.Horizons[name]
	if !ok {
		return fmt.Errorf("unknown horizon %q", name)
	}

	now := p.now().UTC()
	runID := id.New()
	params := p.cfg.IndicatorParams()
	requested := p.cfg.Indicators
	if len(requested) == 0 {
		requested = allIndicators
	}

	log := p.log.With().Str("run_id", runID).Str("horizon", name).Logger()
	log.Info().Str("granularity", horizon.Granularity).
		Int("lookback_days", horizon.LookbackDays).
		Int("coins", len(p.cfg.Coins)).Msg("horizon run started")

	quotes, err := p.fetcher.FetchMarkets(ctx, p.cfg.Coins)
	if err != nil {
		// quotes only improve the snapshot, candles still carry the run
		log.Warn().Err(err).Msg("market quotes unavailable, using candle closes")
		quotes = nil
	}

	frames := make(map[string]*indicators.Frame)
	sigs := make(map[string]signals.Set)
	for _, coin := range p.cfg.Coins {
		if err := ctx.Err(); err != nil {
			return err
		}
		series, err := p.fetcher.FetchOHLCV(ctx, coin, horizon.Granularity, horizon.LookbackDays, now)
		if err != nil {
			log.Error().Err(err).Str("coin", coin).Msg("fetch failed, skipping coin")
			continue
		}
		f, warnings, err := indicators.Compute(series, requested, params)
		if err != nil {
			log.Error().Err(err).Str("coin", coin).Msg("compute failed, skipping coin")
			continue
		}
		for _, w := range warnings {
			log.Warn().Str("coin", coin).Msg(w)
		}
		frames[coin] = f
		sigs[coin] = signals.Classify(f, params)
	}
	if len(frames) == 0 {
		return fmt.Errorf("horizon %s: no coin produced data", name)
	}

	report := &exporter.Report{
		RunID:        runID,
		Horizon:      name,
		Granularity:  horizon.Granularity,
		GeneratedAt:  now,
		LookbackDays: horizon.LookbackDays,
		Frames:       frames,
		Signals:      sigs,
	}
	for _, e := range p.exporters {
		if err := e.Export(ctx, report); err != nil {
			return fmt.Errorf("export %s: %w", e.Name(), err)
		}
		log.Debug().Str("exporter", e.Name()).Msg("export done")
	}

	combined, err := p.store.Load()
	if err != nil {
		return err
	}
	includeHistory, includeLongStats := snapshot.Refresh(
		combined.StateFor(name), now, horizon.Granularity, forceHourly, forceDaily)

	var prev *snapshot.HorizonPayload
	if combined != nil {
		prev = combined.Horizons[name]
	} else {
		combined = &snapshot.Combined{}
	}

	payload := snapshot.BuildHorizon(snapshot.Input{
		Horizon:          name,
		Granularity:      horizon.Granularity,
		Now:              now,
		Frames:           frames,
		Signals:          sigs,
		Quotes:           quotes,
		Params:           params,
		Prev:             prev,
		IncludeHistory:   includeHistory,
		IncludeLongStats: includeLongStats,
	})
	combined.SetHorizon(name, payload)

	if err := p.store.Save(combined, name); err != nil {
		return err
	}
	if err := p.store.Prune(backupRetention, now); err != nil {
		log.Warn().Err(err).Msg("pruning old snapshot backups failed")
	}

	log.Info().Int("coins_ok", len(frames)).
		Bool("history_refreshed", includeHistory).
		Bool("long_stats_refreshed", includeLongStats).
		Msg("horizon run finished")
	return nil
}
