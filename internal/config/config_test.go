package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Analysis.Alpha)
	assert.Equal(t, 0.05, cfg.Analysis.GapThreshold)
	assert.Equal(t, 10, cfg.Analysis.MaxCleanupRounds)
	assert.Equal(t, 14, cfg.Analysis.AgeMin)
	assert.Equal(t, 70, cfg.Analysis.AgeMax)
	assert.False(t, cfg.Analysis.AcceptPartialOnAbort)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PAYEQ_SERVER_PORT", "9090")
	t.Setenv("PAYEQ_ANALYSIS_ALPHA", "0.01")
	t.Setenv("PAYEQ_ANALYSIS_GAP_THRESHOLD", "0.03")
	t.Setenv("PAYEQ_LOGGING_LEVEL", "debug")

	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 0.01, cfg.Analysis.Alpha)
	assert.Equal(t, 0.03, cfg.Analysis.GapThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `server:
  port: 9191
  read_timeout: 20s
  write_timeout: 20s
analysis:
  alpha: 0.10
  gap_threshold: 0.02
security:
  allowed_origins:
    - http://example.test
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 0.10, cfg.Analysis.Alpha)
	assert.Equal(t, 0.02, cfg.Analysis.GapThreshold)
	assert.Equal(t, []string{"http://example.test"}, cfg.Security.AllowedOrigins)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	yaml := `server:
  port: 9191
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("PAYEQ_SERVER_PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"alpha out of range", func(c *Config) { c.Analysis.Alpha = 1.5 }},
		{"zero threshold", func(c *Config) { c.Analysis.GapThreshold = 0 }},
		{"inverted age band", func(c *Config) { c.Analysis.AgeMin = 70; c.Analysis.AgeMax = 14 }},
		{"inverted salary band", func(c *Config) { c.Analysis.SalaryMin = 5000; c.Analysis.SalaryMax = 100 }},
		{"no cleanup rounds", func(c *Config) { c.Analysis.MaxCleanupRounds = 0 }},
		{"no origins", func(c *Config) { c.Security.AllowedOrigins = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "logs/app.log", cfg.Logging.FilePath)
}

// chdirTemp moves the test into a fresh directory so stray config.yaml
// files cannot leak in.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}
