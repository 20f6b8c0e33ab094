package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/freefall/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, dynamo.DefaultMass, cfg.Mass)
	assert.Equal(t, dynamo.DefaultSamples, cfg.Samples)
	assert.Equal(t, 150, cfg.DPI)
	assert.Equal(t, "png", cfg.Format)
	assert.Zero(t, cfg.Height, "height must be supplied by the run")
	assert.Error(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(c *Config) {}, nil},
		{"negative height", func(c *Config) { c.Height = -5 }, dynamo.ErrRange},
		{"zero mass", func(c *Config) { c.Mass = 0 }, dynamo.ErrRange},
		{"one sample", func(c *Config) { c.Samples = 1 }, dynamo.ErrTooFewSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Height = 10
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	cfg := DefaultConfig()
	cfg.Height = 10
	cfg.Format = "gif"
	assert.Error(t, cfg.Validate())

	cfg.Format = "svg"
	cfg.DPI = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Height = 42
	cfg.Mass = 3
	cfg.Format = "svg"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("height: 12.5\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.5, cfg.Height)
	assert.Equal(t, dynamo.DefaultMass, cfg.Mass)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.NoError(t, cfg.Validate())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("height: [1, 2\n"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("balcony")
	require.NotNil(t, cfg)
	assert.Equal(t, 10.0, cfg.Height)
	assert.Equal(t, DefaultDPI, cfg.DPI)
	assert.NoError(t, cfg.Validate())

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	require.Len(t, names, len(Presets))
	assert.IsIncreasing(t, names)
	for _, name := range names {
		assert.NoError(t, GetPreset(name).Validate(), name)
	}
}
