// Package config loads prepdesk settings from an optional TOML file and
// PREPDESK_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/prepdesk/internal/llm"
	"github.com/alexanderramin/prepdesk/internal/search"
	"github.com/pelletier/go-toml/v2"
)

const defaultConfigPath = "~/.config/prepdesk/config.toml"

// Search mirrors search.Config for the [search] table.
type Search struct {
	Endpoint   string `toml:"endpoint"`
	TimeoutMs  int    `toml:"timeout_ms"`
	DebounceMs int    `toml:"debounce_ms"`
	MaxRetries int    `toml:"max_retries"`
	LogCalls   bool   `toml:"log_calls"`
}

// Client returns the settings in the form the search package takes.
func (s Search) Client() search.Config {
	return search.Config{
		Endpoint:   s.Endpoint,
		TimeoutMs:  s.TimeoutMs,
		DebounceMs: s.DebounceMs,
		MaxRetries: s.MaxRetries,
		LogCalls:   s.LogCalls,
	}
}

// LLM mirrors the global fields of llm.Config for the [llm] table.
type LLM struct {
	Enabled    bool   `toml:"enabled"`
	Endpoint   string `toml:"endpoint"`
	Model      string `toml:"model"`
	TimeoutMs  int    `toml:"timeout_ms"`
	MaxRetries int    `toml:"max_retries"`
	LogCalls   bool   `toml:"log_calls"`
}

// Client returns the settings in the form the llm package takes. Per-task
// parameters keep their defaults.
func (l LLM) Client() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Enabled = l.Enabled
	cfg.Endpoint = l.Endpoint
	cfg.Model = l.Model
	cfg.TimeoutMs = l.TimeoutMs
	cfg.MaxRetries = l.MaxRetries
	cfg.LogCalls = l.LogCalls
	return cfg
}

// Config holds every prepdesk setting.
//
//   - DBPath: the SQLite file holding snapshots and the project index
//   - Workspace: id opened when a command gets no --workspace flag
//   - LogUseCases: log each service use case to stderr
//   - Search: the episode search collaborator
//   - LLM: the Ollama server used to refine outline text and summarize results
type Config struct {
	DBPath      string `toml:"db_path"`
	Workspace   string `toml:"workspace"`
	LogUseCases bool   `toml:"log_use_cases"`
	Search      Search `toml:"search"`
	LLM         LLM    `toml:"llm"`
}

// Default returns the configuration used when no file or env is present.
func Default() Config {
	sc := search.DefaultConfig()
	lc := llm.DefaultConfig()
	return Config{
		DBPath: "~/.prepdesk/prepdesk.db",
		Search: Search{
			Endpoint:   sc.Endpoint,
			TimeoutMs:  sc.TimeoutMs,
			DebounceMs: sc.DebounceMs,
			MaxRetries: sc.MaxRetries,
			LogCalls:   sc.LogCalls,
		},
		LLM: LLM{
			Enabled:    lc.Enabled,
			Endpoint:   lc.Endpoint,
			Model:      lc.Model,
			TimeoutMs:  lc.TimeoutMs,
			MaxRetries: lc.MaxRetries,
			LogCalls:   lc.LogCalls,
		},
	}
}

// Load reads path (or $PREPDESK_CONFIG, or the default location), applies
// environment overrides, expands paths and validates the result. It returns
// the resolved file path and whether that file existed. A missing file is
// not an error.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PREPDESK_CONFIG")
	}
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}
	if cfg.DBPath, err = ExpandPath(cfg.DBPath); err != nil {
		return nil, "", false, fmt.Errorf("db_path: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PREPDESK_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("PREPDESK_WORKSPACE"); v != "" {
		c.Workspace = v
	}
	if v := os.Getenv("PREPDESK_SEARCH_ENDPOINT"); v != "" {
		c.Search.Endpoint = v
	}
	if err := envInt("PREPDESK_SEARCH_TIMEOUT_MS", &c.Search.TimeoutMs); err != nil {
		return err
	}
	if err := envInt("PREPDESK_SEARCH_DEBOUNCE_MS", &c.Search.DebounceMs); err != nil {
		return err
	}
	if err := envBool("PREPDESK_LOG_USE_CASES", &c.LogUseCases); err != nil {
		return err
	}
	if err := envBool("PREPDESK_LLM_ENABLED", &c.LLM.Enabled); err != nil {
		return err
	}
	if v := os.Getenv("PREPDESK_LLM_ENDPOINT"); v != "" {
		c.LLM.Endpoint = v
	}
	if v := os.Getenv("PREPDESK_LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if err := envInt("PREPDESK_LLM_TIMEOUT_MS", &c.LLM.TimeoutMs); err != nil {
		return err
	}
	return envBool("PREPDESK_LLM_LOG_CALLS", &c.LLM.LogCalls)
}

func envBool(name string, dst *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = b
	return nil
}

func envInt(name string, dst *int) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must be set")
	}
	if err := c.Search.Client().Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.LLM.Client().Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config %s is a directory", expanded)
	}
	return expanded, true, nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
// ":memory:" is returned unchanged.
func ExpandPath(p string) (string, error) {
	if p == "" || p == ":memory:" {
		return p, nil
	}
	if strings.HasPrefix(p, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if p == "~" {
			p = home
		} else if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
			p = filepath.Join(home, p[2:])
		}
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}
