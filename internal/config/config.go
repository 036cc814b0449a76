package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything needed to run one crawl from the command line.
type Config struct {
	URL        string           `yaml:"url"`
	Tag        string           `yaml:"tag"`
	Selection  SelectionConfig  `yaml:"selection"`
	Politeness PolitenessConfig `yaml:"politeness"`
	Workers    int              `yaml:"workers"`
	HTTP       HTTPConfig       `yaml:"http"`
	SeedRetry  SeedRetryConfig  `yaml:"seed_retry"`
	Logging    LoggingConfig    `yaml:"logging"`
	Report     ReportConfig     `yaml:"report"`
}

// SelectionConfig tunes the scope filter.
type SelectionConfig struct {
	MinLinkLength int `yaml:"min_link_length"`
}

// PolitenessConfig controls pacing. RPS > 0 switches to a token bucket.
type PolitenessConfig struct {
	Delay Duration `yaml:"delay"`
	RPS   float64  `yaml:"rps"`
	Burst int      `yaml:"burst"`
}

// HTTPConfig tunes the fetcher.
type HTTPConfig struct {
	Timeout      Duration `yaml:"timeout"`
	UserAgent    string   `yaml:"user_agent"`
	MaxBodyBytes int64    `yaml:"max_body_bytes"`
}

// SeedRetryConfig bounds the home page retry loop. MaxAttempts 0 retries forever.
type SeedRetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts"`
	Backoff     Duration `yaml:"backoff"`
	MaxBackoff  Duration `yaml:"max_backoff"`
}

// LoggingConfig selects log verbosity and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
	NoColor    bool   `yaml:"no_color"`
}

// ReportConfig selects summary outputs.
type ReportConfig struct {
	JSON       bool `yaml:"json"`
	IndentJSON bool `yaml:"indent_json"`
}

// Default returns a Config populated with the crawler defaults.
func Default() Config {
	return Config{
		Tag: "img",
		Selection: SelectionConfig{
			MinLinkLength: 1,
		},
		Politeness: PolitenessConfig{
			Delay: DurationFrom(500 * time.Millisecond),
			Burst: 1,
		},
		Workers: 1,
		HTTP: HTTPConfig{
			Timeout:      DurationFrom(15 * time.Second),
			UserAgent:    "webcrawling101/1.0",
			MaxBodyBytes: 8 * 1024 * 1024,
		},
		SeedRetry: SeedRetryConfig{
			MaxAttempts: 10,
			Backoff:     DurationFrom(100 * time.Millisecond),
			MaxBackoff:  DurationFrom(2 * time.Second),
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Report: ReportConfig{
			IndentJSON: true,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result.
func Load(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return Parse(file)
}

// Parse decodes YAML from r on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, cfg.Validate()
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Tag) == "" {
		errs = append(errs, errors.New("tag must not be empty"))
	}
	if c.Selection.MinLinkLength < 1 {
		errs = append(errs, errors.New("selection.min_link_length must be at least 1"))
	}
	if c.Politeness.Delay.Duration < 0 {
		errs = append(errs, errors.New("politeness.delay must not be negative"))
	}
	if c.Politeness.RPS < 0 {
		errs = append(errs, errors.New("politeness.rps must not be negative"))
	}
	if c.Workers < 1 {
		errs = append(errs, errors.New("workers must be at least 1"))
	}
	if c.HTTP.Timeout.Duration < 0 {
		errs = append(errs, errors.New("http.timeout must not be negative"))
	}
	if c.SeedRetry.MaxAttempts < 0 {
		errs = append(errs, errors.New("seed_retry.max_attempts must not be negative"))
	}
	if c.SeedRetry.Backoff.Duration < 0 || c.SeedRetry.MaxBackoff.Duration < 0 {
		errs = append(errs, errors.New("seed_retry backoff must not be negative"))
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not supported", c.Logging.Level))
	}

	return errors.Join(errs...)
}
