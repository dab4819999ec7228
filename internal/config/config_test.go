package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "maitred", cfg.Name)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 2, cfg.Dispatcher.MaxRetries)
	assert.Equal(t, time.Second, cfg.GetBaseDelay())
	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "maitred", cfg.Name)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "maitred.yaml")
		content := `
llm:
  provider: anthropic
  model: claude-sonnet-4
dispatcher:
  max_retries: 5
  base_delay: 250ms
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
		assert.Equal(t, "claude-sonnet-4", cfg.LLM.Model)
		assert.Equal(t, 5, cfg.Dispatcher.MaxRetries)
		assert.Equal(t, 250*time.Millisecond, cfg.GetBaseDelay())
		// Untouched sections keep their defaults.
		assert.Equal(t, "data/restaurant.db", cfg.Store.DatabasePath)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "maitred.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm: [not a map"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("api key and provider", func(t *testing.T) {
		t.Setenv("MAITRED_API_KEY", "sk-test")
		t.Setenv("MAITRED_LLM_PROVIDER", "anthropic")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
		assert.Equal(t, "anthropic", cfg.LLM.Provider)
	})

	t.Run("model, base url and db path", func(t *testing.T) {
		t.Setenv("MAITRED_LLM_MODEL", "qwen2.5:14b")
		t.Setenv("MAITRED_LLM_BASE_URL", "http://gpu-box:11434/v1")
		t.Setenv("MAITRED_DB_PATH", "/tmp/other.db")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "qwen2.5:14b", cfg.LLM.Model)
		assert.Equal(t, "http://gpu-box:11434/v1", cfg.LLM.BaseURL)
		assert.Equal(t, "/tmp/other.db", cfg.Store.DatabasePath)
	})

	t.Run("env wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "maitred.yaml")
		require.NoError(t, os.WriteFile(path, []byte("llm:\n  model: from-file\n"), 0644))
		t.Setenv("MAITRED_LLM_MODEL", "from-env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.LLM.Model)
	})
}

func TestValidate(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LLM.Provider = "cohere"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing db path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Store.DatabasePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative retries", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dispatcher.MaxRetries = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestDurationFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "garbage"
	cfg.Dispatcher.BaseDelay = "-5s"

	assert.Equal(t, 120*time.Second, cfg.GetLLMTimeout())
	assert.Equal(t, time.Second, cfg.GetBaseDelay())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "maitred.yaml")
	cfg := DefaultConfig()
	cfg.LLM.Model = "llama3.3:70b"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "llama3.3:70b", loaded.LLM.Model)
}
