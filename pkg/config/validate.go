package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/pressluft-io/pressluft/pkg/encoding"
	"github.com/pressluft-io/pressluft/pkg/mediatype"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure. A process
// must not start on a validation error.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.read_timeout must be > 0, got %s", c.Server.ReadTimeout))
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.write_timeout must be > 0, got %s", c.Server.WriteTimeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be > 0, got %s", c.Server.ShutdownTimeout))
	}

	// upstream.url is required and must be an absolute http(s) URL.
	if c.Upstream.URL == "" {
		errs = append(errs, fmt.Errorf("upstream.url is required"))
	} else if u, err := url.Parse(c.Upstream.URL); err != nil {
		errs = append(errs, fmt.Errorf("upstream.url: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("upstream.url must be an absolute http or https URL, got %q", c.Upstream.URL))
	}

	// compress.encodings entries must name encodings we can produce.
	for _, token := range c.Compress.Encodings {
		switch encoding.Parse(token) {
		case encoding.Gzip, encoding.Brotli:
			// valid
		default:
			errs = append(errs, fmt.Errorf("compress.encodings: %q is not a supported encoding (use \"gzip\" or \"br\")", token))
		}
	}

	// compress.exclude patterns must parse.
	if _, err := c.Compress.Exclusions(); err != nil {
		errs = append(errs, fmt.Errorf("compress.exclude: %w", err))
	}

	if c.Compress.GzipLevel < -2 || c.Compress.GzipLevel > 9 {
		errs = append(errs, fmt.Errorf("compress.gzip_level must be between -2 and 9, got %d", c.Compress.GzipLevel))
	}
	if c.Compress.BrotliQuality < 0 || c.Compress.BrotliQuality > 11 {
		errs = append(errs, fmt.Errorf("compress.brotli_quality must be between 0 and 11, got %d", c.Compress.BrotliQuality))
	}

	// observability.metrics.path must be an absolute path when enabled.
	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	// log.level must be a known value.
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("log.level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

// Exclusions returns the compiled exclusion list: the built-in defaults
// when compress.exclude is absent, the parsed custom list (even when
// empty) otherwise.
func (c CompressConfig) Exclusions() (mediatype.Exclusions, error) {
	if c.Exclude == nil {
		return mediatype.DefaultExclusions(), nil
	}
	return mediatype.ParseExclusions(c.Exclude)
}

// EnabledEncodings maps the configured encoding tokens to encoding values.
func (c CompressConfig) EnabledEncodings() []encoding.Encoding {
	encs := make([]encoding.Encoding, 0, len(c.Encodings))
	for _, token := range c.Encodings {
		encs = append(encs, encoding.Parse(token))
	}
	return encs
}
