// Package proxy assembles the compressing reverse proxy: an
// httputil.ReverseProxy forwarding to the configured upstream, with the
// compression pipeline attached to its response hook and the usual
// middleware chain (recovery, request ID, access log, metrics) around it.
package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pressluft-io/pressluft/pkg/compress"
	"github.com/pressluft-io/pressluft/pkg/config"
	"github.com/pressluft-io/pressluft/pkg/observability"
)

// Server wraps an http.Server around the compressing reverse proxy and
// manages the full lifecycle including startup and graceful shutdown.
type Server struct {
	httpServer *http.Server
	pipeline   *compress.Pipeline
	cfg        *config.Config
	logger     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the proxy from configuration. The compression pipeline is
// constructed here, so a malformed exclusion list or an encoding without
// an encoder refuses to start the process.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	exclusions, err := cfg.Compress.Exclusions()
	if err != nil {
		return nil, fmt.Errorf("compress.exclude: %w", err)
	}
	pipeline, err := compress.New(
		compress.WithEncodings(cfg.Compress.EnabledEncodings()...),
		compress.WithExclusions(exclusions),
		compress.WithGzipLevel(cfg.Compress.GzipLevel),
		compress.WithBrotliQuality(cfg.Compress.BrotliQuality),
		compress.WithLogger(s.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("building compression pipeline: %w", err)
	}
	s.pipeline = pipeline

	upstream, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("upstream.url: %w", err)
	}

	// The outbound transport must not negotiate gzip on its own; the
	// pipeline is the only compression actor between client and upstream.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableCompression = true

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		Transport:      transport,
		ModifyResponse: pipeline.ModifyResponse,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.logger.Error("upstream request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	mux := http.NewServeMux()
	mux.Handle("/", observability.MetricsMiddleware(rp))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Observability.Metrics.Enabled {
		mux.Handle("GET "+cfg.Observability.Metrics.Path, promhttp.Handler())
	}

	root := Chain(
		Recovery(s.logger),
		RequestID(),
		AccessLog(s.logger),
	)(mux)

	s.httpServer = &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s, nil
}

// Handler returns the fully assembled root handler. Used for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server and blocks until a shutdown signal
// (SIGINT or SIGTERM) is received. It then gracefully shuts down, waiting
// for in-flight requests to complete within the configured timeout.
func (s *Server) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, nil)
}

// ServeOn starts the server on the given listener. Used for testing.
func (s *Server) ServeOn(ln net.Listener) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("proxy starting",
			slog.String("addr", s.httpServer.Addr),
			slog.String("upstream", s.cfg.Upstream.URL))
		var err error
		if ln != nil {
			err = s.httpServer.Serve(ln)
		} else {
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.cfg.Server.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("proxy stopped")
	return nil
}

// Shutdown gracefully shuts down the server with the given context.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
