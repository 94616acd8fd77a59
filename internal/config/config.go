// Package config loads tada settings.
//
// Sources, lowest priority first:
//  1. Defaults
//  2. User config file ($XDG_CONFIG_HOME/tada/tada.toml or the OS config dir)
//  3. Project config file (tada.toml or .tada.toml in the working directory)
//  4. Environment variables (TADA_*)
//  5. CLI flags (applied by the caller after Load)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	AppName = "tada"

	DefaultAPIURL    = "http://127.0.0.1:7070/todos"
	DefaultListen    = "127.0.0.1:7070"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultTheme     = "classic"
	DefaultToastTTL  = 3 * time.Second
)

// Duration is a time.Duration that decodes from TOML strings like "3s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every setting.
type Config struct {
	// APIURL is the todo collection endpoint.
	APIURL string `toml:"api_url"`

	// ToastTTL is how long a toast stays on screen.
	ToastTTL Duration `toml:"toast_ttl"`

	// MockLatency turns the artificial latency of the home screen on or off.
	MockLatency bool `toml:"mock_latency"`

	Theme string `toml:"theme"`

	Log LogConfig `toml:"log"`

	Serve ServeConfig `toml:"serve"`

	// CredentialsDir overrides ~/.tada.
	CredentialsDir string `toml:"credentials_dir"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	// File receives log output while the TUI owns the terminal.
	File string `toml:"file"`
}

// ServeConfig configures the development API server.
type ServeConfig struct {
	Listen   string `toml:"listen"`
	DataFile string `toml:"data_file"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	cfg.APIURL = DefaultAPIURL
	cfg.ToastTTL = Duration{DefaultToastTTL}
	cfg.MockLatency = true
	cfg.Theme = DefaultTheme
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Format = DefaultLogFormat
	cfg.Serve.Listen = DefaultListen
}

// Load reads defaults, config files and the environment.
func Load() (*Config, error) {
	cfg := Default()

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize fills derived values and checks the result. Call it again after
// applying flags.
func (c *Config) Finalize() error {
	c.CredentialsDir = expandPath(c.CredentialsDir)
	c.Log.File = expandPath(c.Log.File)
	c.Serve.DataFile = expandPath(c.Serve.DataFile)

	if c.Log.File == "" {
		c.Log.File = defaultLogFile()
	}
	if c.Serve.DataFile == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		c.Serve.DataFile = filepath.Join(wd, "todos.json")
	}

	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	if c.ToastTTL.Duration <= 0 {
		return fmt.Errorf("toast_ttl must be positive, got %s", c.ToastTTL)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unknown log format %q (want text, json or logfmt)", c.Log.Format)
	}
	return nil
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func findUserConfigFile() string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, AppName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(dir, AppName))
	}
	for _, dir := range dirs {
		p := filepath.Join(dir, AppName+".toml")
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func findProjectConfigFile() string {
	for _, name := range []string{AppName + ".toml", "." + AppName + ".toml"} {
		if fileExists(name) {
			return name
		}
	}
	return ""
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName+".log")
	}
	return filepath.Join(dir, AppName, AppName+".log")
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
