package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, PRESSLUFT_CONFIG env, ./pressluft.yaml, /etc/pressluft/config.yaml)
//  3. Environment variable overrides
//  4. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg)

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. PRESSLUFT_CONFIG environment variable
// 3. ./pressluft.yaml in the current directory
// 4. /etc/pressluft/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("PRESSLUFT_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"pressluft.yaml",
		"/etc/pressluft/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps PRESSLUFT_* environment variables to config
// fields. Values that fail to parse are ignored; validation reports
// whatever state remains.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRESSLUFT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PRESSLUFT_UPSTREAM_URL"); v != "" {
		cfg.Upstream.URL = v
	}
	if v := os.Getenv("PRESSLUFT_ENCODINGS"); v != "" {
		cfg.Compress.Encodings = splitList(v)
	}
	if v := os.Getenv("PRESSLUFT_EXCLUDE"); v != "" {
		cfg.Compress.Exclude = splitList(v)
	}
	if v := os.Getenv("PRESSLUFT_GZIP_LEVEL"); v != "" {
		if level, err := strconv.Atoi(v); err == nil {
			cfg.Compress.GzipLevel = level
		}
	}
	if v := os.Getenv("PRESSLUFT_BROTLI_QUALITY"); v != "" {
		if quality, err := strconv.Atoi(v); err == nil {
			cfg.Compress.BrotliQuality = quality
		}
	}
	if v := os.Getenv("PRESSLUFT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// splitList splits a comma-separated env value into trimmed entries,
// dropping empty ones.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
