// Package config provides Viper-based hierarchical configuration management.
//
// Values are resolved in increasing order of precedence: built-in defaults,
// a ud-extract.yaml file, UDX_* environment variables, then command-line
// flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/ud-extract/internal/linesource"
	"fjacquet/ud-extract/internal/logging"
	"fjacquet/ud-extract/internal/report"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "UDX"

// LogConfig controls diagnostics.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// InputConfig controls how the log file is read.
type InputConfig struct {
	MaxLineBytes int    `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	Compression  string `mapstructure:"compression" yaml:"compression"`
	InMemory     bool   `mapstructure:"in_memory" yaml:"in_memory"`
}

// ExtractConfig controls the extraction passes.
type ExtractConfig struct {
	Strict           bool `mapstructure:"strict" yaml:"strict"`
	ProgressInterval int  `mapstructure:"progress_interval" yaml:"progress_interval"`
}

// OutputConfig controls the report.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Sort   bool   `mapstructure:"sort" yaml:"sort"`
	File   string `mapstructure:"file" yaml:"file"`
}

// Config represents the complete application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Input   InputConfig   `mapstructure:"input" yaml:"input"`
	Extract ExtractConfig `mapstructure:"extract" yaml:"extract"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "log.level",
	"log-format":     "log.format",
	"max-line-bytes": "input.max_line_bytes",
	"compression":    "input.compression",
	"in-memory":      "input.in_memory",
	"strict":         "extract.strict",
	"format":         "output.format",
	"sort":           "output.sort",
	"output":         "output.file",
}

// InitializeConfig loads defaults, the optional config file and environment.
func InitializeConfig() (*Config, error) {
	return Load("", nil)
}

// Load resolves the configuration. configFile, when set, must exist; when
// empty the usual locations are searched and a missing file is not an error.
// Flags that were explicitly set on the command line override everything.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ud-extract")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.ud-extract")
		v.AddConfigPath(".ud-extract")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Plain LOG_LEVEL/LOG_FORMAT are honored as well, as in .env files.
	if err := v.BindEnv("log.level", EnvPrefix+"_LOG_LEVEL", "LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind log level environment: %w", err)
	}
	if err := v.BindEnv("log.format", EnvPrefix+"_LOG_FORMAT", "LOG_FORMAT"); err != nil {
		return nil, fmt.Errorf("failed to bind log format environment: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("input.max_line_bytes", linesource.DefaultMaxLineBytes)
	v.SetDefault("input.compression", string(linesource.CompressionAuto))
	v.SetDefault("input.in_memory", false)

	v.SetDefault("extract.strict", false)
	v.SetDefault("extract.progress_interval", 1000)

	v.SetDefault("output.format", string(report.FormatText))
	v.SetDefault("output.sort", false)
	v.SetDefault("output.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Input.MaxLineBytes <= 0 {
		return fmt.Errorf("input.max_line_bytes must be positive, got: %d", config.Input.MaxLineBytes)
	}

	if _, err := linesource.ParseCompression(config.Input.Compression); err != nil {
		return err
	}

	if config.Extract.ProgressInterval <= 0 {
		return fmt.Errorf("extract.progress_interval must be positive, got: %d", config.Extract.ProgressInterval)
	}

	if _, err := report.ParseFormat(config.Output.Format); err != nil {
		return err
	}

	return nil
}

// LineSourceOptions converts the input section for the line source.
func (c *Config) LineSourceOptions() linesource.Options {
	compression, _ := linesource.ParseCompression(c.Input.Compression)
	return linesource.Options{
		Compression:  compression,
		MaxLineBytes: c.Input.MaxLineBytes,
	}
}

// ReportFormat returns the validated output format.
func (c *Config) ReportFormat() report.Format {
	format, _ := report.ParseFormat(c.Output.Format)
	return format
}

// NewLogger builds the diagnostics logger described by the log section.
func (c *Config) NewLogger(out io.Writer) logging.Logger {
	return logging.NewLogrusAdapterWithOutput(c.Log.Level, c.Log.Format, out)
}

// WriteYAML dumps the effective configuration.
func (c *Config) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
