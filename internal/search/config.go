package search

import (
	"errors"
	"strings"
	"time"
)

// Config holds the settings for the episode search collaborator.
type Config struct {
	Endpoint   string
	TimeoutMs  int
	DebounceMs int
	MaxRetries int
	LogCalls   bool
}

// DefaultConfig points at a local search service with no retries.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "http://localhost:8000/api",
		TimeoutMs:  5000,
		DebounceMs: 300,
		MaxRetries: 0,
	}
}

func (c Config) Timeout() time.Duration  { return time.Duration(c.TimeoutMs) * time.Millisecond }
func (c Config) Debounce() time.Duration { return time.Duration(c.DebounceMs) * time.Millisecond }

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("search endpoint must not be empty"))
	}
	if c.TimeoutMs <= 0 {
		errs = append(errs, errors.New("search timeout must be positive"))
	}
	if c.DebounceMs < 0 {
		errs = append(errs, errors.New("search debounce must not be negative"))
	}
	if c.MaxRetries < 0 {
		errs = append(errs, errors.New("search retries must not be negative"))
	}
	return errors.Join(errs...)
}
