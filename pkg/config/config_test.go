package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfiguration(t *testing.T) {
	cfg := DefaultServerConfiguration()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.Users.MinDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.Simulation.Users.MaxDelay)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.Orders.MinDelay)
	assert.Equal(t, 80*time.Millisecond, cfg.Simulation.Orders.MaxDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.Slow.MinDelay)
	assert.Equal(t, 2*time.Second, cfg.Simulation.Slow.MaxDelay)
	assert.InDelta(t, 0.5, cfg.Simulation.Error.FailureProbability, 0)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ServerConfiguration)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*ServerConfiguration) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *ServerConfiguration) { c.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "port too large",
			mutate:  func(c *ServerConfiguration) { c.Port = 70000 },
			wantErr: "port",
		},
		{
			name:    "negative read timeout",
			mutate:  func(c *ServerConfiguration) { c.ReadTimeout = -1 },
			wantErr: "readTimeout",
		},
		{
			name:    "bad probability",
			mutate:  func(c *ServerConfiguration) { c.Simulation.Error.FailureProbability = 1.2 },
			wantErr: "simulation.error",
		},
		{
			name:    "inverted delay range",
			mutate:  func(c *ServerConfiguration) { c.Simulation.Slow.MaxDelay = time.Millisecond },
			wantErr: "simulation.slow",
		},
		{
			name:    "delay exceeds write timeout",
			mutate:  func(c *ServerConfiguration) { c.Simulation.Slow.MaxDelay = 40 * time.Second },
			wantErr: "writeTimeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfiguration()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerConfiguration(), cfg)
}

func TestLoadEnvOverridesPort(t *testing.T) {
	t.Setenv("PORT", "9091")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9091, cfg.Port)
}

func TestLoadEnvInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracedapp.yaml")
	data := `
port: 9000
simulation:
  slow:
    minDelay: 5ms
    maxDelay: 20ms
  error:
    failureProbability: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 5*time.Millisecond, cfg.Simulation.Slow.MinDelay)
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.Slow.MaxDelay)
	assert.InDelta(t, 1.0, cfg.Simulation.Error.FailureProbability, 0)

	// Untouched sections keep their defaults.
	assert.Equal(t, 10*time.Millisecond, cfg.Simulation.Users.MinDelay)
}

func TestLoadFileEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracedapp.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\n"), 0o600))
	t.Setenv("PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, nil, 0o600))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0o600))

		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidYAML)
	})

	t.Run("bad duration string", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad-duration.yaml")
		data := "simulation:\n  slow:\n    minDelay: fast\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "minDelay")
	})
}
