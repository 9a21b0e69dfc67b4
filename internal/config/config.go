// Package config provides the configuration system for notedex
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	HTML   HTMLConfig   `mapstructure:"html"`
	Log    LogConfig    `mapstructure:"log"`
	Jobs   int          `mapstructure:"jobs"`
}

// InputConfig describes where notes files are read from
type InputConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
}

// OutputConfig describes the generated index
type OutputConfig struct {
	File        string `mapstructure:"file"`
	Format      string `mapstructure:"format"` // html, json, yaml, sqlite
	IncludeBody bool   `mapstructure:"include_body"`
}

// HTMLConfig holds options for the html format
type HTMLConfig struct {
	Title string `mapstructure:"title"`
	Style string `mapstructure:"style"` // chroma style for code blocks
}

// LogConfig holds logging options
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console, json
}

// Formats lists the output formats accepted by Validate.
var Formats = []string{"html", "json", "yaml", "sqlite"}

// DefaultConfig returns a new configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			Dir:        "notes",
			Extensions: []string{".md", ".markdown", ".txt"},
		},
		Output: OutputConfig{
			File:   "index.html",
			Format: "",
		},
		HTML: HTMLConfig{
			Title: "Notes",
			Style: "github",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Jobs: 0,
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"input-dir":    "input.dir",
	"output-file":  "output.file",
	"format":       "output.format",
	"include-body": "output.include_body",
	"jobs":         "jobs",
	"log-level":    "log.level",
	"log-format":   "log.format",
	"html-title":   "html.title",
}

// Load loads configuration from file, environment variables, and CLI flags.
// Flags that were not set on the command line do not override lower layers.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// NOTEDEX_INPUT_DIR, NOTEDEX_OUTPUT_FORMAT, ...
	v.SetEnvPrefix("NOTEDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("notedex")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/notedex")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Input.Dir = expandHome(cfg.Input.Dir)
	cfg.Output.File = expandHome(cfg.Output.File)

	return &cfg, nil
}

// ResolvedFormat returns the output format, inferring it from the output
// file extension when none was configured.
func (c *Config) ResolvedFormat() string {
	if c.Output.Format != "" {
		return strings.ToLower(c.Output.Format)
	}
	switch strings.ToLower(filepath.Ext(c.Output.File)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "html"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.Output.File == "" {
		return fmt.Errorf("output file is required")
	}

	format := c.ResolvedFormat()
	valid := false
	for _, f := range Formats {
		if f == format {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid output format: %s (must be one of %s)", format, strings.Join(Formats, ", "))
	}

	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs: %d (must be >= 0)", c.Jobs)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Log.Format)
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("input.dir", defaults.Input.Dir)
	v.SetDefault("input.extensions", defaults.Input.Extensions)
	v.SetDefault("output.file", defaults.Output.File)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.include_body", defaults.Output.IncludeBody)
	v.SetDefault("html.title", defaults.HTML.Title)
	v.SetDefault("html.style", defaults.HTML.Style)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("jobs", defaults.Jobs)
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
