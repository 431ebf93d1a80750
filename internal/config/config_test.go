package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateConfig(t *testing.T) string {
	t.Helper()

	// Point at an empty config dir so host files don't leak into the test.
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("ASKDB_CONFIG", path)

	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "30s", cfg.Database.QueryTimeout)
	assert.Equal(t, 10, cfg.Profiler.SampleDataSize)
	assert.Equal(t, 50, cfg.Profiler.CategoricalMaxDistinct)
	assert.InDelta(t, 0.10, cfg.Profiler.CategoricalMaxRatio, 1e-9)
	assert.Equal(t, 5, cfg.Knowledge.TopK)
	assert.Equal(t, 16000, cfg.Context.MaxChars)
	assert.Equal(t, 10, cfg.Generator.MaxExplainRows)
	assert.Equal(t, "local", cfg.Embedding.Provider)
	assert.Equal(t, 384, cfg.Embedding.Dimensions)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")

	fileConfig := map[string]interface{}{
		"database": map[string]interface{}{
			"driver": "duckdb",
			"dsn":    "/data/askdb.duckdb",
		},
		"knowledge": map[string]interface{}{
			"top_k": 7,
		},
	}

	data, err := json.MarshalIndent(fileConfig, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(configPath, data, 0600))

	cfg := &Config{}
	require.NoError(t, loadConfigFromFile(cfg, configPath))

	assert.Equal(t, "duckdb", cfg.Database.Driver)
	assert.Equal(t, "/data/askdb.duckdb", cfg.Database.DSN)
	assert.Equal(t, 7, cfg.Knowledge.TopK)

	// Sections absent from the file stay untouched for env defaults.
	assert.Zero(t, cfg.Profiler.SampleDataSize)
}

func TestLoadConfigFromFileInvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0600))

	err := loadConfigFromFile(&Config{}, configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv("ASKDB_DB_DRIVER", "duckdb")
	t.Setenv("ASKDB_PROFILER_SAMPLE_DATA_SIZE", "25")
	t.Setenv("ASKDB_KNOWLEDGE_TOP_K", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Database.Driver)
	assert.Equal(t, 25, cfg.Profiler.SampleDataSize)
	assert.Equal(t, 3, cfg.Knowledge.TopK)
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	isolateConfig(t)

	cfg, err := LoadConfigWithOverrides(map[string]interface{}{
		"db-driver": "duckdb",
		"db-dsn":    "/tmp/askdb.db",
		"top-k":     2,
	})
	require.NoError(t, err)

	assert.Equal(t, "duckdb", cfg.Database.Driver)
	assert.Equal(t, "/tmp/askdb.db", cfg.Database.DSN)
	assert.Equal(t, 2, cfg.Knowledge.TopK)
}

func TestValidateConfigErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"bad query timeout", func(c *Config) { c.Database.QueryTimeout = "soon" }},
		{"zero sample size", func(c *Config) { c.Profiler.SampleDataSize = 0 }},
		{"ratio above one", func(c *Config) { c.Profiler.CategoricalMaxRatio = 1.5 }},
		{"zero top_k", func(c *Config) { c.Knowledge.TopK = 0 }},
		{"zero context budget", func(c *Config) { c.Context.MaxChars = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)

			cfg, err := LoadConfig()
			require.NoError(t, err)

			tt.mutate(cfg)

			assert.Error(t, validateConfig(cfg))
		})
	}
}

func TestSaveConfigWritesFile(t *testing.T) {
	configPath := isolateConfig(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	cfg.Knowledge.TopK = 9
	require.NoError(t, SaveConfig(cfg))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	var saved Config
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, 9, saved.Knowledge.TopK)
}

func TestTimeoutDurations(t *testing.T) {
	db := DatabaseConfig{QueryTimeout: "45s"}
	assert.Equal(t, 45*time.Second, db.QueryTimeoutDuration())

	gen := GeneratorConfig{Timeout: "garbage"}
	assert.Equal(t, 60*time.Second, gen.TimeoutDuration())
}
