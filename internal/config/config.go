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

// Config captures everything coinsearch reads from its config file.
type Config struct {
	APIBase            string
	Debounce           time.Duration
	RequestTimeout     time.Duration
	DropStaleResponses bool
	Theme              string
	LogLevel           string
	LogFile            string
	MetricsAddr        string
}

const (
	defaultConfigPath     = "~/.config/coinsearch/config.toml"
	defaultAPIBase        = "https://api.coingecko.com"
	defaultDebounce       = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultTheme          = "Dracula"
	defaultLogLevel       = "info"
	defaultLogFile        = "~/.local/state/coinsearch/coinsearch.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBase:        defaultAPIBase,
		Debounce:       defaultDebounce,
		RequestTimeout: defaultRequestTimeout,
		Theme:          defaultTheme,
		LogLevel:       defaultLogLevel,
		LogFile:        mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Empty or non-positive values also fall back to defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase            string `toml:"api_base"`
		DebounceMS         int    `toml:"debounce_ms"`
		RequestTimeoutSec  int    `toml:"request_timeout_sec"`
		DropStaleResponses bool   `toml:"drop_stale_responses"`
		Theme              string `toml:"theme"`
		LogLevel           string `toml:"log_level"`
		LogFile            string `toml:"log_file"`
		MetricsAddr        string `toml:"metrics_addr"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if base := strings.TrimSpace(raw.APIBase); base != "" {
		cfg.APIBase = base
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.RequestTimeoutSec > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSec) * time.Second
	}
	cfg.DropStaleResponses = raw.DropStaleResponses
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		cfg.Theme = theme
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		expanded, err := expandPath(logFile)
		if err != nil {
			return Config{}, fmt.Errorf("expand log_file: %w", err)
		}
		cfg.LogFile = expanded
	}
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)

	return cfg, nil
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
