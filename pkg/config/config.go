// Package config loads interpreter settings from a YAML file.
package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"sigil/pkg/source"
)

// EnvVar names the environment variable consulted when no config path is
// given on the command line.
const EnvVar = "SIGIL_CONFIG"

// Config holds the tunables of the driver and CLI.
type Config struct {
	// SnippetRadius is the number of characters of context shown on each
	// side of a lexical or syntax error.
	SnippetRadius int `yaml:"snippet_radius"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel    string `yaml:"log_level"`
	HistoryFile string `yaml:"history_file"`
	// Workers bounds the number of files checked concurrently.
	Workers int `yaml:"workers"`
	// MaxOutput stops a run after that many output lines. Zero disables it.
	MaxOutput int `yaml:"max_output"`

	// Path is the file the config was read from, empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	history := ".sigil_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}
	return &Config{
		SnippetRadius: source.DefaultSnippetRadius,
		LogLevel:      "warn",
		HistoryFile:   history,
		Workers:       runtime.NumCPU(),
	}
}

// Load reads path on top of the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

// Resolve picks the config file: the explicit path if set, else the file
// named by SIGIL_CONFIG, else the defaults.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if env := strings.TrimSpace(os.Getenv(EnvVar)); env != "" {
		return Load(env)
	}
	return Default(), nil
}

func (c *Config) normalize() error {
	if c.SnippetRadius < 0 {
		return fmt.Errorf("snippet_radius must not be negative, got %d", c.SnippetRadius)
	}
	if c.MaxOutput < 0 {
		return fmt.Errorf("max_output must not be negative, got %d", c.MaxOutput)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if rest, ok := strings.CutPrefix(c.HistoryFile, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, rest)
		}
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
