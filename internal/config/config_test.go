package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/ud-extract/internal/linesource"
	"fjacquet/ud-extract/internal/report"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "LOG_FORMAT",
		"UDX_LOG_LEVEL", "UDX_LOG_FORMAT",
		"UDX_INPUT_MAX_LINE_BYTES", "UDX_INPUT_COMPRESSION", "UDX_INPUT_IN_MEMORY",
		"UDX_EXTRACT_STRICT", "UDX_EXTRACT_PROGRESS_INTERVAL",
		"UDX_OUTPUT_FORMAT", "UDX_OUTPUT_SORT", "UDX_OUTPUT_FILE",
	} {
		t.Setenv(key, "")
	}
	// Keep $HOME/.ud-extract out of the search path.
	t.Setenv("HOME", t.TempDir())
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ud-extract.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, linesource.DefaultMaxLineBytes, config.Input.MaxLineBytes)
	assert.Equal(t, "auto", config.Input.Compression)
	assert.False(t, config.Input.InMemory)
	assert.False(t, config.Extract.Strict)
	assert.Equal(t, 1000, config.Extract.ProgressInterval)
	assert.Equal(t, "text", config.Output.Format)
	assert.False(t, config.Output.Sort)
	assert.Equal(t, "", config.Output.File)
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)

	testEnvVars := map[string]string{
		"UDX_LOG_LEVEL":                 "debug",
		"UDX_LOG_FORMAT":                "json",
		"UDX_INPUT_COMPRESSION":         "gzip",
		"UDX_INPUT_IN_MEMORY":           "true",
		"UDX_EXTRACT_STRICT":            "true",
		"UDX_EXTRACT_PROGRESS_INTERVAL": "50",
		"UDX_OUTPUT_FORMAT":             "csv",
		"UDX_OUTPUT_SORT":               "true",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	config, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "gzip", config.Input.Compression)
	assert.True(t, config.Input.InMemory)
	assert.True(t, config.Extract.Strict)
	assert.Equal(t, 50, config.Extract.ProgressInterval)
	assert.Equal(t, "csv", config.Output.Format)
	assert.True(t, config.Output.Sort)
}

func TestInitializeConfig_UnprefixedLogLevel(t *testing.T) {
	clearTestEnvVars(t)
	t.Setenv("LOG_LEVEL", "warn")

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.Equal(t, "warn", config.Log.Level)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)

	path := writeConfigFile(t, `
log:
  level: "warn"
  format: "json"
input:
  max_line_bytes: 4096
  compression: zstd
extract:
  strict: true
output:
  format: yaml
  file: report.yaml
`)

	config, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 4096, config.Input.MaxLineBytes)
	assert.Equal(t, "zstd", config.Input.Compression)
	assert.True(t, config.Extract.Strict)
	assert.Equal(t, "yaml", config.Output.Format)
	assert.Equal(t, "report.yaml", config.Output.File)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	clearTestEnvVars(t)

	path := writeConfigFile(t, "output:\n  sort: true\n")

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Chdir(originalDir))
	}()
	require.NoError(t, os.Chdir(filepath.Dir(path)))

	config, err := InitializeConfig()
	require.NoError(t, err)
	assert.True(t, config.Output.Sort)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_HierarchicalPrecedence(t *testing.T) {
	clearTestEnvVars(t)

	path := writeConfigFile(t, `
log:
  level: "warn"
output:
  format: json
extract:
  progress_interval: 10
`)
	t.Setenv("UDX_LOG_LEVEL", "error")
	t.Setenv("UDX_OUTPUT_FORMAT", "csv")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", "text", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--format", "yaml"}))

	config, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "yaml", config.Output.Format)       // flag wins
	assert.Equal(t, "error", config.Log.Level)          // env beats file, unset flag ignored
	assert.Equal(t, 10, config.Extract.ProgressInterval) // config file value
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "invalid" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "non positive line limit",
			modifyConfig: func(c *Config) { c.Input.MaxLineBytes = 0 },
			expectError:  "input.max_line_bytes must be positive",
		},
		{
			name:         "unknown compression",
			modifyConfig: func(c *Config) { c.Input.Compression = "lz4" },
			expectError:  "unsupported compression",
		},
		{
			name:         "non positive progress interval",
			modifyConfig: func(c *Config) { c.Extract.ProgressInterval = -1 },
			expectError:  "extract.progress_interval must be positive",
		},
		{
			name:         "unknown output format",
			modifyConfig: func(c *Config) { c.Output.Format = "xml" },
			expectError:  "unsupported output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Log:     LogConfig{Level: "info", Format: "text"},
				Input:   InputConfig{MaxLineBytes: 1024, Compression: "auto"},
				Extract: ExtractConfig{ProgressInterval: 1000},
				Output:  OutputConfig{Format: "text"},
			}
			require.NoError(t, validateConfig(config))

			tt.modifyConfig(config)
			err := validateConfig(config)
			assert.ErrorContains(t, err, tt.expectError)
		})
	}
}

func TestConfig_Conversions(t *testing.T) {
	config := &Config{
		Log:    LogConfig{Level: "debug", Format: "json"},
		Input:  InputConfig{MaxLineBytes: 2048, Compression: "ZSTD"},
		Output: OutputConfig{Format: "yml"},
	}

	opts := config.LineSourceOptions()
	assert.Equal(t, linesource.CompressionZstd, opts.Compression)
	assert.Equal(t, 2048, opts.MaxLineBytes)
	assert.Equal(t, report.FormatYAML, config.ReportFormat())

	var buf bytes.Buffer
	logger := config.NewLogger(&buf)
	logger.Debug("visible at debug")
	assert.Contains(t, buf.String(), `"msg":"visible at debug"`)
}

func TestConfig_WriteYAML(t *testing.T) {
	clearTestEnvVars(t)
	config, err := InitializeConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, config.WriteYAML(&buf))

	var decoded Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *config, decoded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("UDX_TEST_FROM_DOTENV=loaded\n"), 0600))
	t.Setenv("UDX_TEST_FROM_DOTENV", "")
	require.NoError(t, os.Unsetenv("UDX_TEST_FROM_DOTENV"))

	loaded := loadEnvFile(dir)
	assert.Equal(t, filepath.Join(dir, ".env"), loaded)
	assert.Equal(t, "loaded", os.Getenv("UDX_TEST_FROM_DOTENV"))

	assert.Equal(t, "", loadEnvFile(filepath.Join(dir, "empty", "nested")))
}
