package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

// Config holds the configuration for the service.
type Config struct {
	// MasterKeys is a comma-separated list of long-lived API keys.
	MasterKeys      string          `yaml:"master_keys"`
	Port            int             `yaml:"port"`
	Debug           bool            `yaml:"debug"`
	LogFormat       string          `yaml:"log_format"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	DemoKeyTTLHours int             `yaml:"demo_key_ttl_hours"`
}

// LoadConfig reads and parses the configuration file. It returns the config and a potential warning message.
var LoadConfig = func(path string) (*Config, string, error) {
	var config Config
	var warning string

	data, err := os.ReadFile(path)
	if err == nil {
		// File exists, so unmarshal it
		err = yaml.Unmarshal(data, &config)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		// An error other than "not found" occurred
		return nil, "", fmt.Errorf("failed to read config file: %w", err)
	}
	// If file does not exist, we continue with an empty config and rely on environment variables.

	// Override with environment variables if they exist
	if keys := os.Getenv("TEXTHUB_MASTER_KEYS"); keys != "" {
		config.MasterKeys = keys
	}
	if port := os.Getenv("TEXTHUB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Port = p
		}
	}
	if debug := os.Getenv("TEXTHUB_DEBUG"); debug != "" {
		config.Debug = (debug == "true")
	}
	if format := os.Getenv("TEXTHUB_LOG_FORMAT"); format != "" {
		config.LogFormat = format
	}

	// Set default values
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.LogFormat == "" {
		config.LogFormat = "json"
	}
	if config.RateLimit.Requests == 0 {
		config.RateLimit.Requests = 10
	}
	if config.RateLimit.WindowSeconds == 0 {
		config.RateLimit.WindowSeconds = 60
	}
	if config.DemoKeyTTLHours == 0 {
		config.DemoKeyTTLHours = 24
	}

	// Final validation after overrides
	if config.LogFormat != "json" && config.LogFormat != "text" {
		return nil, "", fmt.Errorf("invalid log_format %q: must be \"json\" or \"text\"", config.LogFormat)
	}
	if config.RateLimit.Requests < 0 || config.RateLimit.WindowSeconds < 0 {
		return nil, "", fmt.Errorf("rate_limit values must be positive, got %d requests per %ds", config.RateLimit.Requests, config.RateLimit.WindowSeconds)
	}
	if config.DemoKeyTTLHours < 0 {
		return nil, "", fmt.Errorf("demo_key_ttl_hours must be positive, got %d", config.DemoKeyTTLHours)
	}

	if len(ParseMasterKeys(config.MasterKeys)) == 0 {
		warning = "no master keys configured; only self-issued demo keys will be accepted"
	}

	return &config, warning, nil
}

// ParseMasterKeys splits a comma-separated key list into non-empty trimmed tokens.
func ParseMasterKeys(s string) []string {
	var keys []string
	for _, part := range strings.Split(s, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
