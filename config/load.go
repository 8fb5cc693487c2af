package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"rit-maker-go/infrastructure/logger"
	"rit-maker-go/strategy"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env         string                  `yaml:"env"`
	Gateway     GatewayConfig           `yaml:"gateway"`
	Logging     logger.Config           `yaml:"logging"`
	MetricsAddr string                  `yaml:"metricsAddr"`
	EventsAddr  string                  `yaml:"eventsAddr"`
	Tickers     map[string]TickerConfig `yaml:"tickers"`
}

type GatewayConfig struct {
	BaseURL   string  `yaml:"baseURL"`
	APIKey    string  `yaml:"apiKey"`
	RestRate  float64 `yaml:"restRate"`  // token bucket refill per second
	RestBurst int     `yaml:"restBurst"` // token bucket burst
}

// TickerConfig is everything one strategy loop instance needs. New
// tickers are added here, not in code.
type TickerConfig struct {
	ActiveFrom       int              `yaml:"activeFrom"`
	ActiveTo         int              `yaml:"activeTo"`
	DepthLimit       int              `yaml:"depthLimit"`
	PacingMs         int              `yaml:"pacingMs"`
	SelfTrader       string           `yaml:"selfTrader"`
	ReductionFactor  float64          `yaml:"reductionFactor"`
	ImbalanceTrigger int              `yaml:"imbalanceTrigger"`
	TickSize         float64          `yaml:"tickSize"`
	Ladder           []strategy.Level `yaml:"ladder"`
	FlattenSlice     int              `yaml:"flattenSlice"`
	SkewFactor       float64          `yaml:"skewFactor"`
	Spread           SpreadConfig     `yaml:"spread"`
	Risk             RiskConfig       `yaml:"risk"`
}

type SpreadConfig struct {
	Base            float64 `yaml:"base"`
	Step            float64 `yaml:"step"`
	Max             float64 `yaml:"max"`
	PositionReset   int     `yaml:"positionReset"`
	OrderCountReset int     `yaml:"orderCountReset"`
}

type RiskConfig struct {
	MaxLong          int `yaml:"maxLong"`
	MaxShort         int `yaml:"maxShort"`
	SoftSkew         int `yaml:"softSkew"`
	Flatten          int `yaml:"flatten"`
	ReverseTolerance int `yaml:"reverseTolerance"`
	MaxOpenOrders    int `yaml:"maxOpenOrders"`
	SingleMax        int `yaml:"singleMax"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides the API key from the
// environment if present, so credentials stay out of the file.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if v := os.Getenv("RIT_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present and thresholds are sane.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.baseURL is required")
	}
	if cfg.Gateway.APIKey == "" {
		return errors.New("gateway.apiKey is required (or RIT_API_KEY)")
	}
	if len(cfg.Tickers) == 0 {
		return errors.New("tickers config is required")
	}
	for name, tc := range cfg.Tickers {
		if err := validateTicker(tc); err != nil {
			return fmt.Errorf("ticker %s: %w", name, err)
		}
	}
	return nil
}

func validateTicker(tc TickerConfig) error {
	if tc.ActiveFrom < 0 || tc.ActiveTo < tc.ActiveFrom {
		return fmt.Errorf("active window [%d, %d] invalid", tc.ActiveFrom, tc.ActiveTo)
	}
	if tc.DepthLimit <= 0 {
		return errors.New("depthLimit must be > 0")
	}
	if tc.PacingMs < 0 {
		return errors.New("pacingMs must be >= 0")
	}
	if tc.ReductionFactor < 0 {
		return errors.New("reductionFactor must be >= 0")
	}
	if tc.ImbalanceTrigger < 0 {
		return errors.New("imbalanceTrigger must be >= 0")
	}
	if len(tc.Ladder) == 0 {
		return errors.New("ladder is required")
	}
	prev := -1.0
	for i, lv := range tc.Ladder {
		if lv.Offset < 0 || lv.Offset <= prev {
			return fmt.Errorf("ladder offsets must be distinct and increasing at [%d]", i)
		}
		if lv.Size <= 0 {
			return fmt.Errorf("ladder[%d] size must be > 0", i)
		}
		prev = lv.Offset
	}
	if tc.FlattenSlice <= 0 {
		return errors.New("flattenSlice must be > 0")
	}
	if tc.SkewFactor <= 0 || tc.SkewFactor > 1 {
		return errors.New("skewFactor must be in (0, 1]")
	}
	if tc.Spread.Base <= 0 || tc.Spread.Step < 0 {
		return errors.New("spread.base must be > 0 and spread.step >= 0")
	}
	if tc.Risk.MaxOpenOrders <= 0 {
		return errors.New("risk.maxOpenOrders must be > 0")
	}
	if tc.Risk.Flatten <= 0 || tc.Risk.SoftSkew <= 0 || tc.Risk.SoftSkew >= tc.Risk.Flatten {
		return errors.New("risk thresholds must satisfy 0 < softSkew < flatten")
	}
	if tc.Risk.ReverseTolerance < 0 {
		return errors.New("risk.reverseTolerance must be >= 0")
	}
	return nil
}
