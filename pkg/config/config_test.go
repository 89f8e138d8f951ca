package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cinder.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2000, cfg.Scheduler.MaxBudget)
	assert.Equal(t, 60, cfg.Scheduler.TickRate)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Audio.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
scheduler:
  max_budget: 500
  release_buffer: 0.25
logging:
  level: debug
  encoding: console
descriptors:
  - effects/combat.yaml
`)
		cfg := Default()
		require.NoError(t, Load(path, cfg))

		assert.Equal(t, 500, cfg.Scheduler.MaxBudget)
		assert.InDelta(t, 0.25, cfg.Scheduler.ReleaseBuffer, 1e-9)
		assert.Equal(t, 60, cfg.Scheduler.TickRate, "unset keys keep defaults")
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, []string{"effects/combat.yaml"}, cfg.Descriptors)
	})

	t.Run("env substitution", func(t *testing.T) {
		t.Setenv("CINDER_BUDGET", "750")
		path := writeConfig(t, `
scheduler:
  max_budget: ${CINDER_BUDGET}
`)
		cfg := Default()
		require.NoError(t, Load(path, cfg))
		assert.Equal(t, 750, cfg.Scheduler.MaxBudget)
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, Load("/nonexistent/cinder.yaml", Default()))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		assert.Error(t, Load(writeConfig(t, "scheduler: ["), Default()))
	})
}

func TestValidate(t *testing.T) {
	t.Run("non-positive budget", func(t *testing.T) {
		cfg := Default()
		cfg.Scheduler.MaxBudget = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative release buffer", func(t *testing.T) {
		cfg := Default()
		cfg.Scheduler.ReleaseBuffer = -0.1
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive tick rate", func(t *testing.T) {
		cfg := Default()
		cfg.Scheduler.TickRate = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown encoding", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Encoding = "xml"
		assert.Error(t, cfg.Validate())
	})
}

func TestSettingsConversion(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.MaxBudget = 300
	cfg.Scheduler.ReleaseBuffer = 0.2
	cfg.Logging.Level = "warn"

	sched := cfg.SchedulerSettings()
	assert.Equal(t, 300, sched.MaxBudget)
	assert.InDelta(t, 0.2, sched.ReleaseBuffer, 1e-9)

	log := cfg.LoggerSettings()
	assert.Equal(t, "warn", log.Level)
	assert.Equal(t, "json", log.Encoding)
}
