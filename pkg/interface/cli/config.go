package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Input/Output
	InputFile       string `short:"i" long:"input" description:"File with listing URLs, one per line (\"-\" for stdin)" default:"-"`
	RunFile         string `short:"f" long:"run-file" description:"YAML run file with listing URLs and optional overrides"`
	DestinationRoot string `short:"o" long:"output" description:"Destination root directory" default:"downloaded-webpages"`

	// Pacing
	PacingSeconds int `long:"pacing" description:"Seconds to pause between downloads" default:"3"`

	// HTTP
	HTTPTimeout     int    `long:"http-timeout" description:"HTTP request timeout in seconds" default:"30"`
	MaxResponseSize int64  `long:"max-response-size" description:"Maximum HTTP response size in bytes" default:"10485760"`
	UserAgent       string `long:"user-agent" description:"HTTP User-Agent header" default:"download-zillow-listings/1.0"`

	// Observability
	MetricsAddr string `long:"metrics-addr" description:"Prometheus exporter listen address (empty disables)"`
	Debug       bool   `short:"d" long:"debug" description:"Enable debug logging"`

	// UI
	ShowDashboard bool `long:"dashboard" description:"Show interactive TUI dashboard"`

	// Real durations (not parsed from flags directly)
	PacingDuration      time.Duration
	HTTPTimeoutDuration time.Duration
}

// RunFileConfig mirrors the YAML run file layout:
//
//	destination_root: downloaded-webpages
//	pacing_seconds: 3
//	urls:
//	  - https://www.zillow.com/homedetails/.../12345678_zpid/
type RunFileConfig struct {
	DestinationRoot string   `yaml:"destination_root"`
	PacingSeconds   *int     `yaml:"pacing_seconds"`
	URLs            []string `yaml:"urls"`
}

// ParseFlags parses command line flags
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			// Help has been printed by the library, exit cleanly
			os.Exit(0)
		}
		return nil, err
	}

	// Merge the run file, if any. Its settings win over flag defaults.
	if cfg.RunFile != "" {
		if err := cfg.applyRunFile(); err != nil {
			return nil, err
		}
	}

	// Convert durations
	cfg.PacingDuration = time.Duration(cfg.PacingSeconds) * time.Second
	cfg.HTTPTimeoutDuration = time.Duration(cfg.HTTPTimeout) * time.Second

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyRunFile loads the YAML run file and applies its overrides.
func (c *Config) applyRunFile() error {
	runFile, err := LoadRunFile(c.RunFile)
	if err != nil {
		return err
	}

	if runFile.DestinationRoot != "" {
		c.DestinationRoot = runFile.DestinationRoot
	}
	if runFile.PacingSeconds != nil {
		c.PacingSeconds = *runFile.PacingSeconds
	}
	return nil
}

// LoadRunFile reads and parses a YAML run file.
func LoadRunFile(path string) (*RunFileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run file %s: %w", path, err)
	}

	var runFile RunFileConfig
	if err := yaml.Unmarshal(data, &runFile); err != nil {
		return nil, fmt.Errorf("parsing run file %s: %w", path, err)
	}
	return &runFile, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DestinationRoot == "" {
		return fmt.Errorf("destination root must not be empty")
	}

	if c.PacingSeconds < 0 {
		return fmt.Errorf("pacing must be >= 0 seconds, got %d", c.PacingSeconds)
	}

	if c.HTTPTimeoutDuration <= 0 {
		return fmt.Errorf("HTTP timeout must be > 0, got %s", c.HTTPTimeoutDuration)
	}

	if c.MaxResponseSize <= 0 {
		return fmt.Errorf("max response size must be > 0, got %d", c.MaxResponseSize)
	}

	return nil
}
