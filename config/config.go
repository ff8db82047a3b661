// Package config loads and validates the analysis run configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"coinscope/indicators"
	"coinscope/market"
)

// Config is the complete run configuration.
type Config struct {
	Coins    []string           `json:"coins" yaml:"coins"`
	Horizons map[string]Horizon `json:"horizons" yaml:"horizons"`

	// Indicators lists which indicator families to compute. Empty means
	// all of them.
	Indicators []string     `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	Params     ParamsConfig `json:"params,omitempty" yaml:"params,omitempty"`

	Export      ExportConfig `json:"export" yaml:"export"`
	OutputDir   string       `json:"output_dir" yaml:"output_dir"`
	SnapshotDir string       `json:"snapshot_dir" yaml:"snapshot_dir"`

	API     APIConfig     `json:"api" yaml:"api"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// Horizon names one analysis window: its candle granularity and how far
// back to fetch.
type Horizon struct {
	Granularity  string `json:"granularity" yaml:"granularity"`
	LookbackDays int    `json:"lookback_days" yaml:"lookback_days"`
}

// ParamsConfig overrides individual indicator periods. Zero values keep
// the defaults.
type ParamsConfig struct {
	EMAPeriods      []int   `json:"ema_periods,omitempty" yaml:"ema_periods,omitempty"`
	SMAPeriods      []int   `json:"sma_periods,omitempty" yaml:"sma_periods,omitempty"`
	RSIPeriod       int     `json:"rsi_period,omitempty" yaml:"rsi_period,omitempty"`
	MACDFast        int     `json:"macd_fast,omitempty" yaml:"macd_fast,omitempty"`
	MACDSlow        int     `json:"macd_slow,omitempty" yaml:"macd_slow,omitempty"`
	MACDSignal      int     `json:"macd_signal,omitempty" yaml:"macd_signal,omitempty"`
	BollingerPeriod int     `json:"bollinger_period,omitempty" yaml:"bollinger_period,omitempty"`
	BollingerK      float64 `json:"bollinger_k,omitempty" yaml:"bollinger_k,omitempty"`
	ATRPeriod       int     `json:"atr_period,omitempty" yaml:"atr_period,omitempty"`
	ADXPeriod       int     `json:"adx_period,omitempty" yaml:"adx_period,omitempty"`
	OBVEMAPeriod    int     `json:"obv_ema_period,omitempty" yaml:"obv_ema_period,omitempty"`
	VolumeMAPeriod  int     `json:"volume_ma_period,omitempty" yaml:"volume_ma_period,omitempty"`
}

// ExportConfig toggles the output formats.
type ExportConfig struct {
	JSON   bool `json:"json" yaml:"json"`
	CSV    bool `json:"csv" yaml:"csv"`
	SQLite bool `json:"sqlite" yaml:"sqlite"`
}

// APIConfig configures the market data client.
type APIConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// KeyEnv names the environment variable holding the API key, so the
	// key itself never lands in a config file.
	KeyEnv  string `json:"key_env,omitempty" yaml:"key_env,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "30s"
}

// ParseTimeout converts the timeout string to a time.Duration. Empty
// means "use the client default".
func (a APIConfig) ParseTimeout() (time.Duration, error) {
	if a.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(a.Timeout)
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "console" or "json"
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on the file
// extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if hasSuffix(path, ".yaml") || hasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if len(c.Coins) == 0 {
		return fmt.Errorf("coins is required")
	}
	if len(c.Horizons) == 0 {
		return fmt.Errorf("at least one horizon is required")
	}
	for name, h := range c.Horizons {
		if !market.ValidGranularity(h.Granularity) {
			return fmt.Errorf("horizon %s: unknown granularity %q", name, h.Granularity)
		}
		if h.LookbackDays <= 0 {
			return fmt.Errorf("horizon %s: lookback_days must be positive", name)
		}
	}
	if !c.Export.JSON && !c.Export.CSV && !c.Export.SQLite {
		return fmt.Errorf("at least one export format must be enabled")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.SnapshotDir == "" {
		return fmt.Errorf("snapshot_dir is required")
	}
	if d, err := c.API.ParseTimeout(); err != nil {
		return fmt.Errorf("api.timeout: %w", err)
	} else if d < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}
	return nil
}

// IndicatorParams merges the configured overrides onto the defaults.
func (c *Config) IndicatorParams() indicators.Params {
	p := indicators.DefaultParams()
	o := c.Params

	if len(o.EMAPeriods) > 0 {
		p.EMAPeriods = o.EMAPeriods
	}
	if len(o.SMAPeriods) > 0 {
		p.SMAPeriods = o.SMAPeriods
	}
	if o.RSIPeriod > 0 {
		p.RSIPeriod = o.RSIPeriod
	}
	if o.MACDFast > 0 {
		p.MACDFast = o.MACDFast
	}
	if o.MACDSlow > 0 {
		p.MACDSlow = o.MACDSlow
	}
	if o.MACDSignal > 0 {
		p.MACDSignal = o.MACDSignal
	}
	if o.BollingerPeriod > 0 {
		p.BollingerPeriod = o.BollingerPeriod
	}
	if o.BollingerK > 0 {
		p.BollingerK = o.BollingerK
	}
	if o.ATRPeriod > 0 {
		p.ATRPeriod = o.ATRPeriod
	}
	if o.ADXPeriod > 0 {
		p.ADXPeriod = o.ADXPeriod
	}
	if o.OBVEMAPeriod > 0 {
		p.OBVEMAPeriod = o.OBVEMAPeriod
	}
	if o.VolumeMAPeriod > 0 {
		p.VolumeMAPeriod = o.VolumeMAPeriod
	}
	return p
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Coins: []string{"bitcoin", "ethereum", "solana"},
		Horizons: map[string]Horizon{
			"24h": {Granularity: market.Granularity1h, LookbackDays: 14},
			"7d":  {Granularity: market.Granularity4h, LookbackDays: 60},
			"30d": {Granularity: market.Granularity1d, LookbackDays: 365},
		},
		Export:      ExportConfig{JSON: true, CSV: true},
		OutputDir:   "./out",
		SnapshotDir: "./out/snapshots",
		API: APIConfig{
			KeyEnv:  "COINGECKO_API_KEY",
			Timeout: "30s",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}
