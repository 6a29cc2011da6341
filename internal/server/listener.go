// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/engine"
	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/relay"
	"github.com/MKhiriev/uci-relay/internal/utils"
	"github.com/MKhiriev/uci-relay/models"
)

// ClientConnName names the socket side of every server relay.
const ClientConnName = "client"

// Option configures a Listener.
type Option func(*Listener)

// WithIDGenerator replaces the UUIDv7 session id generator.
func WithIDGenerator(ids IDGenerator) Option {
	return func(l *Listener) {
		l.ids = ids
	}
}

// Listener accepts clients and relays each one to its own engine process.
type Listener struct {
	ln      net.Listener
	spawner engine.Spawner
	ids     IDGenerator
	logger  *logger.Logger

	maxLineLength int
	drainTimeout  time.Duration

	state   atomic.Int32
	serving atomic.Bool

	stopCtx   context.Context
	stop      context.CancelFunc
	closeOnce sync.Once

	sessionsServed atomic.Int64
	spawnFailures  atomic.Int64

	mu     sync.Mutex
	active *models.ActiveSession
	last   *models.SessionSummary
}

// NewListener binds cfg.Server.BindAddress. Failure wraps ErrBind.
func NewListener(cfg *config.ServerConfig, spawner engine.Spawner, logger *logger.Logger, opts ...Option) (*Listener, error) {
	lc := net.ListenConfig{KeepAlive: cfg.Server.KeepAlive}
	ln, err := lc.Listen(context.Background(), "tcp", cfg.Server.BindAddress)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrBind, cfg.Server.BindAddress, err)
	}

	l := &Listener{
		ln:            ln,
		spawner:       spawner,
		ids:           utils.NewUUIDGenerator(),
		logger:        logger,
		maxLineLength: cfg.Relay.MaxLineLength,
		drainTimeout:  cfg.Relay.DrainTimeout,
	}
	l.stopCtx, l.stop = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(l)
	}

	logger.Info().Str("address", l.Addr().String()).Msg("listener bound")
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// State returns the current lifecycle state.
func (l *Listener) State() State {
	return State(l.state.Load())
}

// Stats implements service.StatsSource.
func (l *Listener) Stats() models.ServerStats {
	stats := models.ServerStats{
		State:          l.State().String(),
		Address:        l.Addr().String(),
		SessionsServed: l.sessionsServed.Load(),
		SpawnFailures:  l.spawnFailures.Load(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active != nil {
		active := *l.active
		stats.ActiveSession = &active
	}
	if l.last != nil {
		last := *l.last
		stats.LastSession = &last
	}

	return stats
}

// Serve accepts and serves clients one at a time until ctx is done or Close
// is called. It returns nil after a requested stop.
func (l *Listener) Serve(ctx context.Context) error {
	if !l.serving.CompareAndSwap(false, true) {
		return ErrAlreadyServing
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopWithClose := context.AfterFunc(l.stopCtx, cancel)
	defer stopWithClose()
	closeOnCancel := context.AfterFunc(ctx, func() { _ = l.ln.Close() })
	defer closeOnCancel()

	defer l.setState(StateStopped)

	for {
		l.setState(StateAwaitingConnection)
		l.logger.Info().Str("address", l.Addr().String()).Msg("waiting for connections")

		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("accept: %w", err)
		}

		l.serveSession(ctx, conn)

		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close stops Serve, ending an active session and its engine.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.stop()
		if cerr := l.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	})
	return err
}

func (l *Listener) serveSession(ctx context.Context, conn net.Conn) {
	id := l.ids.Generate()
	peer := conn.RemoteAddr().String()

	log := l.logger.GetChildLogger()
	log.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("session_id", id).Str("peer", peer)
	})
	log.Info().Msg("client connected")

	proc, err := l.spawner.Launch(ctx)
	if err != nil {
		l.spawnFailures.Add(1)
		log.Error().Err(err).Msg("closing connection, engine not started")
		_ = conn.Close()
		return
	}

	l.beginSession(&models.ActiveSession{
		ID:        id,
		Peer:      peer,
		EnginePID: proc.PID(),
		StartedAt: time.Now(),
	})

	client := line.NewConn(ClientConnName, conn, line.WithMaxLineLength(l.maxLineLength))
	summary, relayErr := relay.New(client, proc.Conn(), log, relay.WithDrainTimeout(l.drainTimeout)).Run(ctx)

	// The grace period applies even when the server is shutting down.
	if err := proc.Terminate(context.WithoutCancel(ctx)); err != nil {
		log.Warn().Err(err).Msg("engine termination reported an error")
	}

	l.endSession(id, peer, summary, relayErr)

	event := log.Info()
	if relayErr != nil {
		event = log.Warn().Err(relayErr)
	}
	event.
		Str("ended_by", summary.EndedBy).
		Int64("to_engine", summary.AtoB).
		Int64("to_client", summary.BtoA).
		Dur("duration", summary.Duration).
		Msg("session ended")
}

func (l *Listener) beginSession(active *models.ActiveSession) {
	l.mu.Lock()
	l.active = active
	l.mu.Unlock()
	l.setState(StateSessionActive)
}

func (l *Listener) endSession(id, peer string, summary relay.Summary, relayErr error) {
	last := &models.SessionSummary{
		ID:            id,
		Peer:          peer,
		EndedBy:       summary.EndedBy,
		LinesToEngine: summary.AtoB,
		LinesToClient: summary.BtoA,
		Duration:      summary.Duration,
	}
	if relayErr != nil {
		last.Error = relayErr.Error()
	}

	l.mu.Lock()
	l.active = nil
	l.last = last
	l.mu.Unlock()
	l.sessionsServed.Add(1)
}

func (l *Listener) setState(s State) {
	l.state.Store(int32(s))
}
