package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/examscan/regions"
	"github.com/tsawler/examscan/scoring"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestLoadDefaults verifies that without a file every section carries the
// core packages' defaults.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err, "Load() should not fail without a config file")
	require.NotNil(t, cfg)

	assert.Equal(t, scoring.DefaultWeights(), cfg.ScoringWeights())
	assert.Equal(t, scoring.DefaultGates(), cfg.GateConfig())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 4, cfg.Workers)

	rc, err := cfg.RegionConfig()
	require.NoError(t, err)
	def := regions.DefaultConfig()
	assert.Equal(t, def.TopMargin, rc.TopMargin)
	assert.Equal(t, def.Confidence, rc.Confidence)
	assert.Equal(t, def.NumberPattern.String(), rc.NumberPattern.String())
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "examscan.yaml", `
scoring:
  auto_threshold: 50
  stem_keywords: 0.2
gates:
  core_markers: 3
regions:
  top_margin: 25
  number_pattern: '^第(\d+)题'
log:
  level: debug
  format: json
workers: 8
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.Scoring.AutoThreshold)
	assert.Equal(t, 0.2, cfg.ScoringWeights().StemKeywords)
	assert.Equal(t, 15.0, cfg.Scoring.ConfirmThreshold, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Workers)

	rc, err := cfg.RegionConfig()
	require.NoError(t, err)
	assert.Equal(t, 25.0, rc.TopMargin)
	assert.True(t, rc.NumberPattern.MatchString("第3题"))

	dc := cfg.DetectorConfig()
	assert.Equal(t, 3, dc.Scoring.Gates.CoreMarkers)
	assert.Equal(t, 3, dc.Thresholds.CoreMarkers)
	assert.Equal(t, 50.0, dc.Scoring.Weights.AutoThreshold)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "examscan.json", `{"scoring": {"confirm_threshold": 20}, "workers": 2}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.Scoring.ConfirmThreshold)
	assert.Equal(t, 2, cfg.Workers)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "examscan.yaml", "scoring:\n  auto_threshold: 50\n")
	t.Setenv("EXAMSCAN_SCORING_AUTO_THRESHOLD", "55")
	t.Setenv("EXAMSCAN_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 55.0, cfg.Scoring.AutoThreshold)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"confirm above auto", "scoring:\n  auto_threshold: 30\n  confirm_threshold: 35\n"},
		{"threshold above 100", "scoring:\n  auto_threshold: 120\n"},
		{"negative weight", "scoring:\n  stem_keywords: -0.1\n"},
		{"no-marker bars inverted", "gates:\n  no_marker_auto: 50\n  no_marker_confirm: 60\n"},
		{"core markers zero", "gates:\n  core_markers: 0\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"unknown log format", "log:\n  format: xml\n"},
		{"no workers", "workers: 0\n"},
		{"bad pattern", "regions:\n  option_pattern: '([A-D'\n"},
		{"min height above height", "regions:\n  height_ratio: 0.4\n  min_height_ratio: 0.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "examscan.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestRegionConfigBadPattern(t *testing.T) {
	cfg := Default()
	cfg.Regions.NumberPattern = "(("
	_, err := cfg.RegionConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regions.number_pattern")
}
