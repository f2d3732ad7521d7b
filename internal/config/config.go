package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// EnvPrefix marks the environment variables flimmer reads. Variables without
// the prefix are never consulted.
const EnvPrefix = "FLIMMER_"

// Config captures the runtime settings for flimmer.
type Config struct {
	BackendBaseURL string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	CachePath      string
	Theme          string
}

const (
	defaultConfigPath     = "~/.config/flimmer/config.toml"
	defaultBackendBaseURL = "http://localhost:8080"
	defaultRequestTimeout = 5 * time.Second
	defaultPollInterval   = 30 * time.Second
	defaultCachePath      = "~/.local/share/flimmer/cache.db"
)

// fileConfig is the on-disk TOML shape.
type fileConfig struct {
	BackendBaseURL string `toml:"backend_base_url"`
	RequestTimeout string `toml:"request_timeout"`
	PollInterval   string `toml:"poll_interval"`
	CachePath      string `toml:"cache_path"`
	Theme          string `toml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BackendBaseURL: defaultBackendBaseURL,
		RequestTimeout: defaultRequestTimeout,
		PollInterval:   defaultPollInterval,
		CachePath:      mustExpand(defaultCachePath),
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default location), then applies
// FLIMMER_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, os.Environ())
}

// LoadWithEnv is Load with an explicit environment in os.Environ form.
func LoadWithEnv(path string, environ []string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&raw, exposedEnv(environ))

	cfg := Default()
	if v := strings.TrimSpace(raw.BackendBaseURL); v != "" {
		cfg.BackendBaseURL = v
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(raw.CachePath); v != "" {
		cfg.CachePath = mustExpand(v)
	}
	cfg.Theme = strings.TrimSpace(raw.Theme)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BackendBaseURL) == "" {
		return errors.New("backend_base_url must be set")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.PollInterval < 0 {
		return errors.New("poll_interval must not be negative")
	}
	return nil
}

// TOML renders the effective configuration in config file form.
func (c Config) TOML() ([]byte, error) {
	out, err := toml.Marshal(fileConfig{
		BackendBaseURL: c.BackendBaseURL,
		RequestTimeout: c.RequestTimeout.String(),
		PollInterval:   c.PollInterval.String(),
		CachePath:      c.CachePath,
		Theme:          c.Theme,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return out, nil
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
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

// exposedEnv keeps only FLIMMER_* variables, keyed without the prefix.
func exposedEnv(environ []string) map[string]string {
	out := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		name := strings.TrimPrefix(key, EnvPrefix)
		if name == "" {
			continue
		}
		out[name] = value
	}
	return out
}

func applyEnv(raw *fileConfig, env map[string]string) {
	if v := env["BACKEND_BASE_URL"]; strings.TrimSpace(v) != "" {
		raw.BackendBaseURL = v
	}
	if v := env["REQUEST_TIMEOUT"]; strings.TrimSpace(v) != "" {
		raw.RequestTimeout = v
	}
	if v := env["POLL_INTERVAL"]; strings.TrimSpace(v) != "" {
		raw.PollInterval = v
	}
	if v := env["CACHE_PATH"]; strings.TrimSpace(v) != "" {
		raw.CachePath = v
	}
	if v := env["THEME"]; strings.TrimSpace(v) != "" {
		raw.Theme = v
	}
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
