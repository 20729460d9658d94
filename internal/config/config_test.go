package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, time.Hour, cfg.Analytics.ResultTTL)
	assert.Equal(t, "file://migrations", cfg.MigrationPath)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	cfg := base()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Server.Mode = "production"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Analytics.Cliff.GenericErosionFactor = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Analytics.Approval.BaseRate = -0.1
	assert.Error(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  mode: debug
log:
  level: debug
  format: console
analytics:
  risk:
    warning_letter_weight: 20
  cliff:
    horizon_years: 8
  approval:
    base_rate: 0.7
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 20.0, cfg.Analytics.Risk.WarningLetterWeight)
	assert.Equal(t, 8, cfg.Analytics.Cliff.HorizonYears)
	assert.Equal(t, 0.7, cfg.Analytics.Approval.BaseRate)
	// Unset sections still get defaults.
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  mode: bogus\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
