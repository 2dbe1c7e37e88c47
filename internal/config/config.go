package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/plate-calculator/internal/weight"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// PlateCount seeds one denomination of the plate inventory.
type PlateCount struct {
	Weight float64 `yaml:"weight"`
	Count  int     `yaml:"count"`
}

// CustomBar seeds a user-defined bar.
type CustomBar struct {
	Name         string  `yaml:"name"`
	Weight       float64 `yaml:"weight"`
	IsLoadingPin bool    `yaml:"loading_pin"`
}

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string             `yaml:"port"`
	InitialPlates        []PlateCount       `yaml:"plates"`
	CustomBars           []CustomBar        `yaml:"custom_bars"`
	PresetBarWeights     map[string]float64 `yaml:"preset_bar_weights"`
	ShutdownGracePeriod  time.Duration      `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    time.Duration      `yaml:"read_header_timeout"`
	WriteTimeout         time.Duration      `yaml:"write_timeout"`
	IdleTimeout          time.Duration      `yaml:"idle_timeout"`
	EnableRequestLogging bool               `yaml:"enable_request_logging"`
	EnableMetrics        bool               `yaml:"enable_metrics"`
	EnableMCP            bool               `yaml:"enable_mcp"`
	LogLevel             string             `yaml:"log_level"`
	RateLimitRPS         float64            `yaml:"-"`
	RateLimitBurst       int                `yaml:"-"`
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string             `yaml:"port"`
	Plates               []PlateCount       `yaml:"plates"`
	CustomBars           []CustomBar        `yaml:"custom_bars"`
	PresetBarWeights     map[string]float64 `yaml:"preset_bar_weights"`
	ShutdownGracePeriod  string             `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string             `yaml:"read_header_timeout"`
	WriteTimeout         string             `yaml:"write_timeout"`
	IdleTimeout          string             `yaml:"idle_timeout"`
	EnableRequestLogging *bool              `yaml:"enable_request_logging"`
	EnableMetrics        *bool              `yaml:"enable_metrics"`
	EnableMCP            *bool              `yaml:"enable_mcp"`
	LogLevel             string             `yaml:"log_level"`
	RateLimit            yamlRateLimit      `yaml:"rate_limit"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	EnvFile        string
	Port           *string
	PlatesStr      *string
	LogLevel       *string
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Seed the process environment from a dotenv file; real env vars win
	if overrides != nil && overrides.EnvFile != "" {
		if err := godotenv.Load(overrides.EnvFile); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	applyEnvConfig(&cfg)

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		EnableMetrics:        true,
		EnableMCP:            true,
		LogLevel:             defaultLogLevel,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if len(yamlCfg.Plates) > 0 {
		cfg.InitialPlates = yamlCfg.Plates
	}

	if len(yamlCfg.CustomBars) > 0 {
		cfg.CustomBars = yamlCfg.CustomBars
	}

	if len(yamlCfg.PresetBarWeights) > 0 {
		cfg.PresetBarWeights = yamlCfg.PresetBarWeights
	}

	durations := []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod, "shutdown_grace_period"},
		{yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout, "read_header_timeout"},
		{yamlCfg.WriteTimeout, &cfg.WriteTimeout, "write_timeout"},
		{yamlCfg.IdleTimeout, &cfg.IdleTimeout, "idle_timeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.EnableMetrics != nil {
		cfg.EnableMetrics = *yamlCfg.EnableMetrics
	}
	if yamlCfg.EnableMCP != nil {
		cfg.EnableMCP = *yamlCfg.EnableMCP
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	if yamlCfg.RateLimit.RPS != nil && *yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst != nil && *yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	return nil
}

func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rawPlates := strings.TrimSpace(os.Getenv("PLATES")); rawPlates != "" {
		plates, err := parsePlates(rawPlates)
		if err == nil {
			cfg.InitialPlates = plates
		}
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if v := strings.TrimSpace(os.Getenv("ENABLE_METRICS")); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.EnableMetrics = enabled
		}
	}

	if v := strings.TrimSpace(os.Getenv("ENABLE_MCP")); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.EnableMCP = enabled
		}
	}
}

func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.PlatesStr != nil && *overrides.PlatesStr != "" {
		plates, err := parsePlates(*overrides.PlatesStr)
		if err != nil {
			return fmt.Errorf("parse plates: %w", err)
		}
		cfg.InitialPlates = plates
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	for _, p := range cfg.InitialPlates {
		if p.Weight <= 0 {
			return fmt.Errorf("plate weight must be positive, got %v", p.Weight)
		}
		if p.Count < 0 {
			return fmt.Errorf("plate count must be >= 0, got %d for %v", p.Count, p.Weight)
		}
	}
	for _, b := range cfg.CustomBars {
		if strings.TrimSpace(b.Name) == "" {
			return fmt.Errorf("custom bar name cannot be empty")
		}
		if b.Weight < 0 {
			return fmt.Errorf("custom bar %q weight must be >= 0", b.Name)
		}
	}
	return nil
}

// parsePlates parses a comma-separated list of weight:count pairs.
func parsePlates(raw string) ([]PlateCount, error) {
	counts, err := weight.ParseCounts(raw)
	if err != nil {
		return nil, err
	}
	plates := make([]PlateCount, 0, len(counts))
	for _, c := range counts {
		plates = append(plates, PlateCount{Weight: c.Weight, Count: c.Count})
	}
	return plates, nil
}
