package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Analysis  AnalysisConfig  `yaml:"analysis" mapstructure:"analysis"`
	Timer     TimerConfig     `yaml:"timer" mapstructure:"timer"`
	Score     ScoreConfig     `yaml:"score" mapstructure:"score"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// StoreConfig configures the price-history database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// AnalysisConfig holds the pipeline's calibration constants. These are
// product decisions, not structural ones, so every one is tunable.
type AnalysisConfig struct {
	MinPrice            float64 `yaml:"min_price" mapstructure:"min_price"`
	MaxPrice            float64 `yaml:"max_price" mapstructure:"max_price"`
	PriceSanityCutoff   float64 `yaml:"price_sanity_cutoff" mapstructure:"price_sanity_cutoff"`
	HeavyDiscount       float64 `yaml:"heavy_discount" mapstructure:"heavy_discount"`
	HeavyMultiplier     float64 `yaml:"heavy_multiplier" mapstructure:"heavy_multiplier"`
	ModerateDiscount    float64 `yaml:"moderate_discount" mapstructure:"moderate_discount"`
	ModerateMultiplier  float64 `yaml:"moderate_multiplier" mapstructure:"moderate_multiplier"`
	InflationFlagFactor float64 `yaml:"inflation_flag_factor" mapstructure:"inflation_flag_factor"`
	ImplausibleDiscount float64 `yaml:"implausible_discount" mapstructure:"implausible_discount"`
	BenchmarkFlagFactor float64 `yaml:"benchmark_flag_factor" mapstructure:"benchmark_flag_factor"`
	HistoryWindow       int     `yaml:"history_window" mapstructure:"history_window"`
	SelectorsPath       string  `yaml:"selectors_path" mapstructure:"selectors_path"`
}

// TimerConfig configures the two-sample countdown check.
type TimerConfig struct {
	WaitSecs     int `yaml:"wait_secs" mapstructure:"wait_secs"`
	MaxDriftSecs int `yaml:"max_drift_secs" mapstructure:"max_drift_secs"`
}

// ScoreConfig configures trust-score weighting.
type ScoreConfig struct {
	Weights             map[string]float64 `yaml:"weights" mapstructure:"weights"`
	SeverityMultipliers map[string]float64 `yaml:"severity_multipliers" mapstructure:"severity_multipliers"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// RateLimitConfig configures per-client throttling on the HTTP API.
type RateLimitConfig struct {
	Requests   int `yaml:"requests" mapstructure:"requests"`
	WindowSecs int `yaml:"window_secs" mapstructure:"window_secs"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLEARBUY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "clearbuy.sqlite")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; ClearBuyBot/1.0)")
	v.SetDefault("fetch.max_body_bytes", 512*1024)
	v.SetDefault("analysis.min_price", 50)
	v.SetDefault("analysis.max_price", 500000)
	v.SetDefault("analysis.price_sanity_cutoff", 0.30)
	v.SetDefault("analysis.heavy_discount", 0.6)
	v.SetDefault("analysis.heavy_multiplier", 2.2)
	v.SetDefault("analysis.moderate_discount", 0.4)
	v.SetDefault("analysis.moderate_multiplier", 1.7)
	v.SetDefault("analysis.inflation_flag_factor", 1.3)
	v.SetDefault("analysis.implausible_discount", 0.7)
	v.SetDefault("analysis.benchmark_flag_factor", 1.15)
	v.SetDefault("analysis.history_window", 30)
	v.SetDefault("timer.wait_secs", 2)
	v.SetDefault("timer.max_drift_secs", 10)
	v.SetDefault("score.weights", map[string]float64{
		"pre_ticked_addon": 2,
		"fake_timer":       2,
		"drip_pricing":     1,
		"scarcity":         1,
		"confirm_shaming":  1,
		"mrp_inflation":    1,
	})
	v.SetDefault("score.severity_multipliers", map[string]float64{
		"high":   1.5,
		"medium": 1.0,
		"low":    0.5,
	})
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("rate_limit.requests", 5)
	v.SetDefault("rate_limit.window_secs", 60)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
