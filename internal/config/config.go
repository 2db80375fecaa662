package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything spoolsync needs to reach its server.
type Config struct {
	URL         string
	PollSeconds int
	LogFile     string
	LogLevel    string

	// Path is the resolved config file location.
	Path string
	// Configured is true once a server URL has been provided by the config
	// file or the environment.
	Configured bool
}

const (
	defaultConfigPath  = "~/.config/spoolsync/config.toml"
	defaultLogFile     = "~/.local/state/spoolsync/spoolsync.log"
	defaultLogLevel    = "info"
	defaultPollSeconds = 30

	envURL         = "SPOOLSYNC_URL"
	envPollSeconds = "SPOOLSYNC_POLL_SECONDS"
	envLogLevel    = "SPOOLSYNC_LOG_LEVEL"
	envLogFile     = "SPOOLSYNC_LOG_FILE"
)

type fileConfig struct {
	URL         string `toml:"url"`
	PollSeconds int    `toml:"poll_seconds,omitempty"`
	LogFile     string `toml:"log_file,omitempty"`
	LogLevel    string `toml:"log_level,omitempty"`
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies SPOOLSYNC_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		PollSeconds: defaultPollSeconds,
		LogFile:     defaultLogFile,
		LogLevel:    defaultLogLevel,
		Path:        resolved,
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}

	cfg.URL = NormalizeURL(raw.URL)
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = v
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.LogFile = mustExpand(cfg.LogFile)
	cfg.Configured = cfg.URL != ""
	return cfg, nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(envURL)); v != "" {
		cfg.URL = NormalizeURL(v)
	}
	if v := strings.TrimSpace(os.Getenv(envPollSeconds)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("%s must be a positive integer, got %q", envPollSeconds, v)
		}
		cfg.PollSeconds = seconds
	}
	if v := strings.TrimSpace(os.Getenv(envLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(envLogFile)); v != "" {
		cfg.LogFile = v
	}
	return nil
}

// LoadDotEnv loads variables from a .env file into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
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

// Save records cfg.URL in the config file, creating it and its parent
// directories as needed. Every other key already in the file is kept as
// written; values that only came from the environment or flags are not
// persisted.
func Save(path string, cfg Config) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	doc := map[string]any{}
	existing, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(existing, &doc); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read config: %w", err)
	}
	doc["url"] = NormalizeURL(cfg.URL)

	bytes, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(resolved, bytes, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// PollInterval returns the refresh cadence as a duration.
func (c Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return defaultPollSeconds * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// NormalizeURL trims whitespace and trailing slashes.
func NormalizeURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
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
