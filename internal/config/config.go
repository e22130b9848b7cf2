// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name          string `yaml:"name"`
	Env           string `yaml:"env"`
	MetricsAddr   string `yaml:"metrics_addr"`
	TelemetryAddr string `yaml:"telemetry_addr"`
	LogLevel      string `yaml:"log_level"`
}

// Product holds the static per-product trading parameters. Missing fields are
// filled with documented defaults by Normalize; a tick never fails because a
// strategy knob was left unset.
type Product struct {
	// Mode selects the strategy: market_making, trend_ema, trend_momentum,
	// or mean_reversion.
	Mode string `yaml:"mode"`

	PositionLimit int     `yaml:"position_limit"`
	Spread        float64 `yaml:"spread"`
	DynamicSpread bool    `yaml:"dynamic_spread"` // widen spread as position concentrates
	MinEdge       float64 `yaml:"min_edge"`

	// FairValue is the static fallback; nil means the product has no known
	// constant value and relies entirely on the book and trade tape.
	FairValue       *float64 `yaml:"fair_value"`
	FairValueMethod string   `yaml:"fair_value_method"` // vwap_blend (default) or book_weighted

	EMAShortPeriod    int     `yaml:"ema_short_period"`
	EMALongPeriod     int     `yaml:"ema_long_period"`
	MomentumWindow    int     `yaml:"momentum_window"`
	MomentumThreshold float64 `yaml:"momentum_threshold"`
	VolatilityWindow  int     `yaml:"volatility_window"`
	VolatilityCeiling float64 `yaml:"volatility_ceiling"` // 0 disables the gate
	ReversionWindow   int     `yaml:"reversion_window"`
	ZThreshold        float64 `yaml:"z_threshold"`

	BaseOrderCap int  `yaml:"base_order_cap"`
	RiskScaled   bool `yaml:"risk_scaled"`
}

// Engine groups knobs that apply across all products.
type Engine struct {
	// HistoryCap bounds retained fair value history per product. Zero means
	// derive it from the largest configured window (floor 64).
	HistoryCap int `yaml:"history_cap"`
}

// Sim configures the synthetic exchange used by the paper harness.
type Sim struct {
	Ticks int   `yaml:"ticks"`
	Seed  int64 `yaml:"seed"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App      App                `yaml:"app"`
	Engine   Engine             `yaml:"engine"`
	Sim      Sim                `yaml:"sim"`
	Products map[string]Product `yaml:"products"`
}

// Strategy mode names accepted in Product.Mode.
const (
	ModeMarketMaking  = "market_making"
	ModeTrendEMA      = "trend_ema"
	ModeTrendMomentum = "trend_momentum"
	ModeMeanReversion = "mean_reversion"
)

// Defaults applied by Normalize when a per-product knob is unset.
const (
	DefaultEMAShortPeriod    = 9
	DefaultEMALongPeriod     = 21
	DefaultMomentumWindow    = 10
	DefaultMomentumThreshold = 0.01
	DefaultVolatilityWindow  = 10
	DefaultReversionWindow   = 10
	DefaultZThreshold        = 2.0
	DefaultBaseOrderCap      = 10
	minHistoryCap            = 64
)

// Load reads a YAML file from disk, hydrates a Config struct, and fills
// per-product defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.Normalize()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Normalize fills defaults for every unset per-product knob.
func (c *Config) Normalize() {
	for name, p := range c.Products {
		if p.Mode == "" {
			p.Mode = ModeMarketMaking
		}
		if p.EMAShortPeriod <= 0 {
			p.EMAShortPeriod = DefaultEMAShortPeriod
		}
		if p.EMALongPeriod <= 0 {
			p.EMALongPeriod = DefaultEMALongPeriod
		}
		if p.MomentumWindow <= 0 {
			p.MomentumWindow = DefaultMomentumWindow
		}
		if p.MomentumThreshold <= 0 {
			p.MomentumThreshold = DefaultMomentumThreshold
		}
		if p.VolatilityWindow <= 0 {
			p.VolatilityWindow = DefaultVolatilityWindow
		}
		if p.ReversionWindow <= 0 {
			p.ReversionWindow = DefaultReversionWindow
		}
		if p.ZThreshold <= 0 {
			p.ZThreshold = DefaultZThreshold
		}
		if p.BaseOrderCap <= 0 {
			p.BaseOrderCap = DefaultBaseOrderCap
		}
		c.Products[name] = p
	}
}

// HistoryCap returns the retained-history bound for a product: the explicit
// engine setting when present, otherwise the largest window the product's
// strategy can ask for, floored at 64.
func (c *Config) HistoryCap(p Product) int {
	if c.Engine.HistoryCap > 0 {
		return c.Engine.HistoryCap
	}
	cap := minHistoryCap
	for _, w := range []int{p.MomentumWindow, p.VolatilityWindow, p.ReversionWindow} {
		if w > cap {
			cap = w
		}
	}
	return cap
}
