package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"coinscope/config"
	"coinscope/exporter"
	"coinscope/fetch"
	"coinscope/logger"
	"coinscope/pipeline"
	"coinscope/snapshot"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch data, compute indicators and update the snapshot",
	Long: `Run the full analysis for every configured horizon: fetch candle
data and market quotes, compute the indicator tables, classify signals,
export the results, and update the snapshot file.

Example:
  coinscope run --config coinscope.yaml
  coinscope run --config coinscope.yaml --horizons 24h --force-daily`,
	RunE: runRun,
}

var (
	runConfigPath  string
	runCoins       []string
	runHorizons    []string
	runOutputDir   string
	runForceHourly bool
	runForceDaily  bool
	runVerbose     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON)")
	runCmd.Flags().StringSliceVar(&runCoins, "coins", nil, "override the configured coin list")
	runCmd.Flags().StringSliceVar(&runHorizons, "horizons", nil, "restrict the run to these horizons")
	runCmd.Flags().StringVarP(&runOutputDir, "out", "o", "", "override the configured output directory")
	runCmd.Flags().BoolVar(&runForceHourly, "force-hourly", false, "rebuild history arrays regardless of freshness")
	runCmd.Flags().BoolVar(&runForceDaily, "force-daily", false, "rebuild history and long stats regardless of freshness")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "debug logging")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if runVerbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	apiKey := ""
	if cfg.API.KeyEnv != "" {
		apiKey = os.Getenv(cfg.API.KeyEnv)
	}
	timeout, err := cfg.API.ParseTimeout()
	if err != nil {
		return err
	}
	client := fetch.NewClient(cfg.API.BaseURL, apiKey, timeout, log)

	exporters, closers, err := buildExporters(cfg)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	store := snapshot.NewStore(cfg.SnapshotDir)
	p := pipeline.New(cfg, client, store, exporters, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(runHorizons) > 0 {
		for _, name := range runHorizons {
			if err := p.RunHorizon(ctx, name, runForceHourly, runForceDaily); err != nil {
				return err
			}
		}
		return nil
	}
	return p.Run(ctx, runForceHourly, runForceDaily)
}

func loadRunConfig() (*config.Config, error) {
	cfg := config.Default()
	if runConfigPath != "" {
		loaded, err := config.LoadFromFile(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if len(runCoins) > 0 {
		cfg.Coins = runCoins
	}
	if runOutputDir != "" {
		cfg.OutputDir = runOutputDir
		cfg.SnapshotDir = filepath.Join(runOutputDir, "snapshots")
	}
	for _, name := range runHorizons {
		if _, ok := cfg.Horizons[name]; !ok {
			return nil, fmt.Errorf("unknown horizon %q", name)
		}
	}
	return cfg, cfg.Validate()
}

type closer interface{ Close() error }

func buildExporters(cfg *config.Config) ([]exporter.Exporter, []closer, error) {
	var (
		exporters []exporter.Exporter
		closers   []closer
	)
	if cfg.Export.JSON {
		exporters = append(exporters, exporter.NewJSON(cfg.OutputDir))
	}
	if cfg.Export.CSV {
		exporters = append(exporters, exporter.NewCSV(cfg.OutputDir))
	}
	if cfg.Export.SQLite {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, nil, err
		}
		sq, err := exporter.NewSQLite(filepath.Join(cfg.OutputDir, "coinscope.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		exporters = append(exporters, sq)
		closers = append(closers, sq)
	}
	return exporters, closers, nil
}
