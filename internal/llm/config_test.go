package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, "http://localhost:11434", cfg.Endpoint)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, 20*time.Second, cfg.TaskTimeout(TaskRefine), "falls back to the global timeout")
	assert.Equal(t, 30*time.Second, cfg.TaskTimeout(TaskSummarize))
	assert.Equal(t, 20*time.Second, cfg.TaskTimeout("unknown"))
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = ""
	assert.NoError(t, cfg.Validate(), "disabled configs are not checked")

	cfg.Enabled = true
	cfg.TimeoutMs = 0
	cfg.MaxRetries = -1
	err := cfg.Validate()
	assert.ErrorContains(t, err, "model must not be empty")
	assert.ErrorContains(t, err, "timeout must be positive")
	assert.ErrorContains(t, err, "retries must not be negative")
}
