package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coinscope",
	Short: "A crypto technical analysis engine with multi-horizon snapshots",
	Long: `Coinscope fetches OHLCV candle data for a set of crypto assets,
computes a battery of technical indicators over configurable horizons,
classifies the latest values into categorical signals, and maintains a
compact JSON snapshot of current market state.

It provides tools for:
  - Computing EMA, SMA, RSI, MACD, Bollinger, ATR, ADX and OBV columns
  - Classifying indicator values into signal states
  - Ranking assets by momentum, volume and volatility
  - Exporting full indicator tables to JSON, CSV and SQLite
  - Maintaining an incrementally refreshed snapshot file`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
