package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

// Server wraps http.Server with the service's timeouts and a graceful
// shutdown driven by context cancellation.
type Server struct {
	srv  *http.Server
	logg *logger.Logger
	cfg  config.ServiceConfig
}

// NewServer builds the HTTP server for the given handler.
func NewServer(cfg config.ServiceConfig, logg *logger.Logger, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logg: logg,
		cfg:  cfg,
	}
}

// Run serves until ctx is canceled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logg.WithField("addr", s.srv.Addr).Info("http server listening")
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
