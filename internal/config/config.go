package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything intelwatch needs at startup.
type Config struct {
	LogDir       string
	SettingsPath string
	PollInterval time.Duration
	WatchFS      bool
	AlertCommand []string
	LogFile      string
}

const (
	defaultConfigPath   = "~/.config/intelwatch/config.toml"
	defaultSettingsPath = "~/.config/intelwatch/settings.jin"
	defaultLogFile      = "~/.local/state/intelwatch/intelwatch.log"
	defaultPollInterval = time.Second
)

// Environment overrides, applied after the config file.
const (
	EnvLogDir   = "INTELWATCH_LOG_DIR"
	EnvSettings = "INTELWATCH_SETTINGS"
	EnvPoll     = "INTELWATCH_POLL"
)

// ErrNotDirectory reports a log directory that is missing or not a directory.
var ErrNotDirectory = errors.New("not a directory")

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load locates and parses the config file, falling back to defaults when it is
// missing, then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		SettingsPath: mustExpand(defaultSettingsPath),
		PollInterval: defaultPollInterval,
		WatchFS:      true,
		LogFile:      mustExpand(defaultLogFile),
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := cfg.readFrom(file); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFrom(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogDir       string   `toml:"log_dir"`
		SettingsPath string   `toml:"settings_path"`
		PollInterval string   `toml:"poll_interval"`
		WatchFS      *bool    `toml:"watch_fs"`
		AlertCommand []string `toml:"alert_command"`
		LogFile      string   `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(raw.LogDir); dir != "" {
		c.LogDir = mustExpand(dir)
	}
	if p := strings.TrimSpace(raw.SettingsPath); p != "" {
		c.SettingsPath = mustExpand(p)
	}
	if p := strings.TrimSpace(raw.LogFile); p != "" {
		c.LogFile = mustExpand(p)
	}
	if s := strings.TrimSpace(raw.PollInterval); s != "" {
		d, err := parseInterval(s)
		if err != nil {
			return fmt.Errorf("parse config: poll_interval: %w", err)
		}
		c.PollInterval = d
	}
	if raw.WatchFS != nil {
		c.WatchFS = *raw.WatchFS
	}
	c.AlertCommand = expandArgs(raw.AlertCommand)
	return nil
}

func (c *Config) applyEnv() error {
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		c.LogDir = mustExpand(dir)
	}
	if p := strings.TrimSpace(os.Getenv(EnvSettings)); p != "" {
		c.SettingsPath = mustExpand(p)
	}
	if s := strings.TrimSpace(os.Getenv(EnvPoll)); s != "" {
		d, err := parseInterval(s)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPoll, err)
		}
		c.PollInterval = d
	}
	return nil
}

// ValidateLogDir checks that LogDir names an existing directory.
func (c Config) ValidateLogDir() error {
	if strings.TrimSpace(c.LogDir) == "" {
		return fmt.Errorf("log directory not set (pass it as an argument or set %s)", EnvLogDir)
	}
	info, err := os.Stat(c.LogDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("log directory %s: %w", c.LogDir, ErrNotDirectory)
		}
		return fmt.Errorf("stat log directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("log directory %s: %w", c.LogDir, ErrNotDirectory)
	}
	return nil
}

// WithLogDir returns a copy with LogDir set to the expanded dir.
func (c Config) WithLogDir(dir string) Config {
	if strings.TrimSpace(dir) != "" {
		c.LogDir = mustExpand(dir)
	}
	return c
}

func parseInterval(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", s)
	}
	return d, nil
}

func expandArgs(args []string) []string {
	var out []string
	for _, a := range args {
		if strings.HasPrefix(a, "~") {
			a = mustExpand(a)
		}
		out = append(out, a)
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
