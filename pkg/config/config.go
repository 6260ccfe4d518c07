// Package config provides unified configuration for the pressluft proxy.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (PRESSLUFT_ prefix)
//  4. Validation
package config

import "time"

// Config holds all configuration for the pressluft proxy.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Compress      CompressConfig      `yaml:"compress"`
	Observability ObservabilityConfig `yaml:"observability"`
	Log           LogConfig           `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 30s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 120s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// UpstreamConfig holds the backend the proxy forwards to.
type UpstreamConfig struct {
	URL string `yaml:"url"` // required, e.g. "http://backend:9000"
}

// CompressConfig holds response compression settings.
type CompressConfig struct {
	// Exclude lists content types never compressed, each "type/subtype" or
	// "type/*". Absent means the built-in defaults; a present list replaces
	// them entirely, and an explicit empty list disables exclusion.
	Exclude []string `yaml:"exclude"`
	// Encodings lists the enabled encodings; "gzip" and "br" are
	// recognized.
	Encodings     []string `yaml:"encodings"`      // default: [gzip]
	GzipLevel     int      `yaml:"gzip_level"`     // -2..9, default: -1 (encoder default)
	BrotliQuality int      `yaml:"brotli_quality"` // 0..11, default: 2
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error", default: "info"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Compress: CompressConfig{
			Encodings:     []string{"gzip"},
			GzipLevel:     -1,
			BrotliQuality: 2,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
