package server

import (
	"context"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

type server struct {
	listener   *Listener
	httpServer *httpServer
	logger     *logger.Logger

	shutdownOnce sync.Once
}

// NewServer wraps listener, plus a status endpoint served by statusHandler
// on cfg.StatusAddress when both are set.
func NewServer(listener *Listener, statusHandler http.Handler, cfg config.Server, logger *logger.Logger) (Server, error) {
	if listener == nil {
		return nil, errNoListener
	}

	s := &server{
		listener: listener,
		logger:   logger,
	}
	if cfg.StatusAddress != "" && statusHandler != nil {
		s.httpServer = newHTTPServer(statusHandler, cfg.StatusAddress, logger)
	}

	return s, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

func (s *server) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.httpServer != nil {
			s.httpServer.Shutdown()
		}
		if err := s.listener.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("closing listener")
		}
	})
}

func (s *server) run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if s.httpServer != nil {
		s.logger.Info().Str("address", s.httpServer.server.Addr).Msg("launching status server")
		go s.httpServer.RunServer()
	}

	served := make(chan error, 1)
	go func() {
		served <- s.listener.Serve(ctx)
	}()

	var err error
	select {
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown requested")
		s.Shutdown()
		err = <-served
	case err = <-served:
		s.Shutdown()
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return err
}
