package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/uci-relay/internal/logger"
)

const statusShutdownTimeout = 5 * time.Second

type httpServer struct {
	server *http.Server
	logger *logger.Logger
}

func newHTTPServer(handler http.Handler, address string, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              address,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (h *httpServer) RunServer() {
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		h.logger.Error().Err(err).Str("address", h.server.Addr).Msg("status server stopped")
	}
}

func (h *httpServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("status server shutdown")
	}
}
