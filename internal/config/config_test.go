package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:1234", cfg.Simulator.BaseURL)
	assert.Equal(t, "natural_lang_trip", cfg.Map.ScenarioName)
	assert.Equal(t, int64(8000), cfg.Map.DepartureSeconds)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Duration(0), cfg.Simulator.AdvanceTimeout)
	assert.False(t, cfg.Oracle.Enabled())
	assert.Equal(t, 15*time.Minute, cfg.Worker.ShutdownTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.Server.CORSOrigins)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, "lock:simulation-server", cfg.Simulator.LockKey)
	assert.Equal(t, 30*time.Second, cfg.Simulator.LockTTL)
	assert.Equal(t, 2*time.Minute, cfg.Server.SimulationWait)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SIM_BASE_URL", "http://sim:9000")
	t.Setenv("MAP_NAME", "newyork")
	t.Setenv("SESSION_TTL", "60")
	t.Setenv("ORACLE_API_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "https://maps.example.com")
	t.Setenv("SIM_LOCK_TTL", "90")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://sim:9000", cfg.Simulator.BaseURL)
	assert.Equal(t, "newyork", cfg.Map.Name)
	assert.Equal(t, time.Minute, cfg.Cache.SessionTTL)
	assert.True(t, cfg.Oracle.Enabled())
	assert.Equal(t, "https://maps.example.com", cfg.Server.CORSOrigins)
	assert.Equal(t, 90*time.Second, cfg.Simulator.LockTTL)
}

func TestLoad_NegativeDeparture(t *testing.T) {
	t.Setenv("SCENARIO_DEPARTURE", "-5")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{Map: MapConfig{Country: "zz", City: "oneshot", Name: "new-cairo"}}

	assert.Equal(t, filepath.Join("data", "system", "zz", "oneshot", "maps", "new-cairo.bin"), cfg.GetMapBinPath())
	assert.Equal(t,
		filepath.Join("data", "system", "zz", "oneshot", "scenarios", "new-cairo", "natural_lang_trip.bin"),
		cfg.GetScenarioBinPath("natural_lang_trip"),
	)
}
