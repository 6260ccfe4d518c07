// Command pressluft runs the compressing reverse proxy.
//
// Configuration is read from an optional YAML file, with environment
// variable overrides:
//
//	PRESSLUFT_CONFIG         - Path to YAML config file (optional)
//	PRESSLUFT_UPSTREAM_URL   - Backend URL to forward to (required)
//	PRESSLUFT_PORT           - Listen port (default: 8080)
//	PRESSLUFT_ENCODINGS      - Enabled encodings, comma separated (default: gzip)
//	PRESSLUFT_EXCLUDE        - Content types never compressed, comma separated
//	PRESSLUFT_GZIP_LEVEL     - Gzip level, -2 to 9 (default: -1)
//	PRESSLUFT_BROTLI_QUALITY - Brotli quality, 0 to 11 (default: 2)
//	PRESSLUFT_LOG_LEVEL      - debug, info, warn, error (default: info)
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pressluft-io/pressluft/pkg/config"
	"github.com/pressluft-io/pressluft/pkg/proxy"
)

func main() {
	if err := run(); err != nil {
		slog.Error("proxy failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	s, err := proxy.New(cfg, proxy.WithLogger(logger))
	if err != nil {
		return err
	}
	return s.ListenAndServe()
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
