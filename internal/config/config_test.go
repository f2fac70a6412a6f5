package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		API:     APIConfig{BaseURL: "http://localhost:8000"},
		Session: SessionConfig{Backend: BackendFile, Dir: "/tmp/fin", Key: "session/current"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errorString string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory backend needs no dir", mutate: func(c *Config) { c.Session.Backend = BackendMemory; c.Session.Dir = "" }},
		{name: "relative base url", mutate: func(c *Config) { c.API.BaseURL = "localhost:8000" }, errorString: "must be an http(s) URL"},
		{name: "negative timeout", mutate: func(c *Config) { c.API.Timeout = -time.Second }, errorString: "must not be negative"},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "redis" }, errorString: "invalid session.backend 'redis'"},
		{name: "file backend without dir", mutate: func(c *Config) { c.Session.Dir = "" }, errorString: "session.dir cannot be empty"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "loud" }, errorString: "invalid log.level 'loud'"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, errorString: "must be text or json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.errorString == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Level = "loud"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
	assert.Contains(t, err.Error(), "log.format")
}

func TestLoadReadsFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[api]
base_url = "https://finance.example.com/"
timeout = "5s"

[session]
backend = "memory"
`), 0o600))
	t.Setenv("FIN_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "https://finance.example.com", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendMemory, cfg.Session.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, path, cfg.File)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Zero(t, cfg.API.Timeout)
	assert.Equal(t, BackendFile, cfg.Session.Backend)
	assert.NotEmpty(t, cfg.Session.Dir)
	assert.Empty(t, cfg.File)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("FIN_API_TIMEOUT", "soon")

	_, err := Load(viper.New(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.timeout")
}

func TestConfigTOMLRoundTrips(t *testing.T) {
	cfg := validConfig()
	cfg.API.Timeout = 3 * time.Second

	data, err := cfg.TOML()
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, "http://localhost:8000", decoded["api"]["base_url"])
	assert.Equal(t, "3s", decoded["api"]["timeout"])
	assert.Equal(t, BackendFile, decoded["session"]["backend"])
}
