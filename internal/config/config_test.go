package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 15, cfg.Fetch.TimeoutSecs)

	assert.Equal(t, 50.0, cfg.Analysis.MinPrice)
	assert.Equal(t, 500000.0, cfg.Analysis.MaxPrice)
	assert.Equal(t, 0.30, cfg.Analysis.PriceSanityCutoff)
	assert.Equal(t, 30, cfg.Analysis.HistoryWindow)

	assert.Equal(t, 2, cfg.Timer.WaitSecs)
	assert.Equal(t, 10, cfg.Timer.MaxDriftSecs)

	assert.Equal(t, 2.0, cfg.Score.Weights["pre_ticked_addon"])
	assert.Equal(t, 2.0, cfg.Score.Weights["fake_timer"])
	assert.Equal(t, 1.0, cfg.Score.Weights["scarcity"])
	assert.Equal(t, 1.5, cfg.Score.SeverityMultipliers["high"])
	assert.Equal(t, 0.5, cfg.Score.SeverityMultipliers["low"])

	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSecs)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrent)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CLEARBUY_STORE_DRIVER", "postgres")
	t.Setenv("CLEARBUY_SERVER_PORT", "9090")
	t.Setenv("CLEARBUY_ANALYSIS_MIN_PRICE", "100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 100.0, cfg.Analysis.MinPrice)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
}
