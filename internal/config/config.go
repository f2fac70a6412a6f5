// Package config loads fin's settings from the config file, FIN_*
// environment variables and built-in defaults, in increasing order of
// precedence: defaults < file < environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "FIN"
	appDirName = "fin"
	configName = "config"
	configType = "toml"

	KeyAPIBaseURL        = "api.base_url"
	KeyAPITimeout        = "api.timeout"
	KeySessionBackend    = "session.backend"
	KeySessionDir        = "session.dir"
	KeySessionKey        = "session.key"
	KeySessionPassPrefix = "session.pass_prefix"
	KeyLogLevel          = "log.level"
	KeyLogFormat         = "log.format"
	KeyLogFile           = "log.file"
	KeyUICurrency        = "ui.currency"

	DefaultBaseURL = "http://localhost:8000"
)

const (
	BackendFile   = "file"
	BackendPass   = "pass"
	BackendChain  = "chain"
	BackendMemory = "memory"
)

type Config struct {
	API     APIConfig
	Session SessionConfig
	Log     LogConfig
	UI      UIConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type APIConfig struct {
	BaseURL string
	// Timeout bounds each request; zero disables it.
	Timeout time.Duration
}

type SessionConfig struct {
	Backend    string
	Dir        string
	Key        string
	PassPrefix string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type UIConfig struct {
	Currency string
}

// Dir is fin's directory under the user config root.
func Dir() (string, error) {
	root, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(root, appDirName), nil
}

func SetDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyAPIBaseURL, DefaultBaseURL)
	v.SetDefault(KeyAPITimeout, "0s")
	v.SetDefault(KeySessionBackend, BackendFile)
	v.SetDefault(KeySessionDir, filepath.Join(dir, "state"))
	v.SetDefault(KeySessionKey, "session/current")
	v.SetDefault(KeySessionPassPrefix, appDirName)
	v.SetDefault(KeyLogLevel, logrus.InfoLevel.String())
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyUICurrency, "₽")
}

// Load reads configuration into v. An explicit path must exist; the
// default location may be absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir, err := Dir()
	if err != nil {
		return nil, err
	}

	SetDefaults(v, dir)
	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case path == "" && errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg, err := FromViper(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromViper(v *viper.Viper) (*Config, error) {
	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString(KeyAPITimeout)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", KeyAPITimeout, err)
	}

	return &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBaseURL)), "/"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Backend:    strings.ToLower(strings.TrimSpace(v.GetString(KeySessionBackend))),
			Dir:        expandHome(v.GetString(KeySessionDir)),
			Key:        strings.TrimSpace(v.GetString(KeySessionKey)),
			PassPrefix: strings.TrimSpace(v.GetString(KeySessionPassPrefix)),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
			File:   expandHome(v.GetString(KeyLogFile)),
		},
		UI: UIConfig{
			Currency: v.GetString(KeyUICurrency),
		},
		File: v.ConfigFileUsed(),
	}, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.API.BaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid %s '%s': %v", KeyAPIBaseURL, c.API.BaseURL, err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid %s '%s': must be an http(s) URL", KeyAPIBaseURL, c.API.BaseURL))
	}

	if c.API.Timeout < 0 {
		problems = append(problems, fmt.Sprintf("invalid %s %v: must not be negative", KeyAPITimeout, c.API.Timeout))
	}

	validBackends := []string{BackendFile, BackendPass, BackendChain, BackendMemory}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.Session.Backend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		problems = append(problems, fmt.Sprintf("invalid %s '%s': must be one of %v", KeySessionBackend, c.Session.Backend, validBackends))
	}
	if (c.Session.Backend == BackendFile || c.Session.Backend == BackendChain) && c.Session.Dir == "" {
		problems = append(problems, fmt.Sprintf("%s cannot be empty when using the %s backend", KeySessionDir, c.Session.Backend))
	}
	if c.Session.Key == "" {
		problems = append(problems, fmt.Sprintf("%s cannot be empty", KeySessionKey))
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("invalid %s '%s'", KeyLogLevel, c.Log.Level))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, fmt.Sprintf("invalid %s '%s': must be text or json", KeyLogFormat, c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

type fileView struct {
	API struct {
		BaseURL string `toml:"base_url"`
		Timeout string `toml:"timeout"`
	} `toml:"api"`
	Session struct {
		Backend    string `toml:"backend"`
		Dir        string `toml:"dir"`
		Key        string `toml:"key"`
		PassPrefix string `toml:"pass_prefix"`
	} `toml:"session"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
		File   string `toml:"file"`
	} `toml:"log"`
	UI struct {
		Currency string `toml:"currency"`
	} `toml:"ui"`
}

// TOML encodes the effective configuration in config file form.
func (c *Config) TOML() ([]byte, error) {
	var view fileView
	view.API.BaseURL = c.API.BaseURL
	view.API.Timeout = c.API.Timeout.String()
	view.Session.Backend = c.Session.Backend
	view.Session.Dir = c.Session.Dir
	view.Session.Key = c.Session.Key
	view.Session.PassPrefix = c.Session.PassPrefix
	view.Log.Level = c.Log.Level
	view.Log.Format = c.Log.Format
	view.Log.File = c.Log.File
	view.UI.Currency = c.UI.Currency

	data, err := toml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
