package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Parser    ParserConfig    `mapstructure:"parser"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds USDA API configuration. An empty APIKey disables food lookup.
type USDAConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // only "memory"
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client IP
	USDA  int `mapstructure:"usda"`   // requests per hour to FoodData Central
}

// MatchingConfig holds food lookup matching configuration
type MatchingConfig struct {
	MinConfidence      float64 `mapstructure:"min_confidence"`
	EnableDebugLogging bool    `mapstructure:"debug"`
}

// ParserConfig holds label parser configuration
type ParserConfig struct {
	EnableDebugLogging bool `mapstructure:"debug"`
	MaxTextBytes       int  `mapstructure:"max_text_bytes"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ignite/")

	v.SetEnvPrefix("IGNITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults registers every key so AutomaticEnv can resolve nested keys on Unmarshal
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"capacitor://localhost", "http://localhost:*"})

	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h") // 30 days
	v.SetDefault("cache.sweep_interval", "10m")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	v.SetDefault("matching.min_confidence", 40.0)
	v.SetDefault("matching.debug", false)

	v.SetDefault("parser.debug", false)
	v.SetDefault("parser.max_text_bytes", 64*1024)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Cache.Type != "memory" {
		return fmt.Errorf("cache type must be 'memory', got: %s", config.Cache.Type)
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("per-IP rate limit must be positive, got: %d", config.RateLimit.PerIP)
	}

	if config.Matching.MinConfidence < 0 || config.Matching.MinConfidence > 100 {
		return fmt.Errorf("matching confidence must be between 0 and 100, got: %.1f", config.Matching.MinConfidence)
	}

	if config.Parser.MaxTextBytes <= 0 {
		return fmt.Errorf("parser max_text_bytes must be positive, got: %d", config.Parser.MaxTextBytes)
	}

	return nil
}

// LookupEnabled reports whether a USDA key is configured
func (c *Config) LookupEnabled() bool {
	return c.USDA.APIKey != ""
}
