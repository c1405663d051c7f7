package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRegistry returns a registry carrying the Go runtime and process
// collectors plus any extra collectors given.
func NewRegistry(extra ...prometheus.Collector) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	all := append([]prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}, extra...)
	for _, c := range all {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return reg, nil
}

// Server serves a Prometheus registry over HTTP.
type Server struct {
	cfg    Config
	gather prometheus.Gatherer
	logger *slog.Logger

	// ready receives the bound address once the listener is open.
	ready chan string
}

// NewServer creates a Server. Config defaults are applied automatically.
func NewServer(cfg Config, gather prometheus.Gatherer, logger *slog.Logger) *Server {
	cfg.ApplyDefaults()
	return &Server{
		cfg:    cfg,
		gather: gather,
		logger: logger.With("component", "metrics"),
		ready:  make(chan string, 1),
	}
}

// Ready returns a channel that receives the bound listen address once the
// server is accepting connections.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, promhttp.HandlerFor(s.gather, promhttp.HandlerOpts{}))

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("metrics: listen %s: %w", s.cfg.ListenAddr, err)
	}
	srv := &http.Server{Handler: mux}

	s.logger.Info("metrics server started", "addr", ln.Addr().String(), "path", s.cfg.Path)
	s.ready <- ln.Addr().String()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("metrics server shutdown", "error", err)
	}
	<-errCh

	s.logger.Info("metrics server stopped")
	return ctx.Err()
}
