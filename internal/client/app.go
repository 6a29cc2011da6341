package client

import (
	"context"
	"io"
	"net"
	"os"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/relay"
	"github.com/MKhiriev/uci-relay/internal/tap"
	"github.com/MKhiriev/uci-relay/internal/workers"
)

// Endpoint names used in logs and relay summaries.
const (
	GUIConnName    = "gui"
	SocketConnName = "socket"
)

// Option configures an App.
type Option func(*App)

// WithStdio replaces the process stdin and stdout. in is closed on teardown
// when it implements io.Closer.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.stdin = in
		a.stdout = out
		a.closeStdin = true
	}
}

// WithDialer replaces the default TCP dialer.
func WithDialer(d Dialer) Option {
	return func(a *App) {
		if d != nil {
			a.dialer = d
		}
	}
}

// App bridges the GUI's stdio to one server session.
type App struct {
	cfg    *config.ClientConfig
	dialer Dialer

	stdin      io.Reader
	stdout     io.Writer
	closeStdin bool

	logger *logger.Logger
}

// NewApp builds a client from a validated configuration. Nothing is opened
// until Run.
func NewApp(cfg *config.ClientConfig, logger *logger.Logger, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		dialer: &net.Dialer{KeepAlive: config.DefaultKeepAlive},
		stdin:  os.Stdin,
		stdout: os.Stdout,
		logger: logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Run connects to the server and relays lines between stdio and the socket
// until the GUI sends quit, either stream ends, or ctx is done.
//
// A failed connection is returned as ErrConnectFailed. A session that ended
// through a disconnect or quit returns nil.
func (a *App) Run(ctx context.Context) error {
	conn, err := a.Connect(ctx)
	if err != nil {
		return err
	}
	a.logger.Info().Str("server", a.cfg.Client.ServerAddress).Msg("connected to server")

	socket := line.NewConn(SocketConnName, conn, line.WithMaxLineLength(a.cfg.Relay.MaxLineLength))
	gui := a.openStdio()

	// The traffic log outlives ctx so lines from the last moments of the
	// session are still flushed.
	sinkCtx, stopSink := context.WithCancel(context.WithoutCancel(ctx))
	background := workers.New()
	if sink := a.openTrafficLog(); sink != nil {
		gui = tap.Wrap(gui, sink)
		background = workers.New(sink)
	}
	background.Run(sinkCtx)
	defer func() {
		stopSink()
		background.Wait()
	}()

	summary, err := relay.New(watchQuit(gui), socket, a.logger,
		relay.WithDrainTimeout(a.cfg.Relay.DrainTimeout),
	).Run(ctx)

	event := a.logger.Info()
	if err != nil {
		event = a.logger.Error().Err(err)
	}
	event.Str("ended_by", summary.EndedBy).
		Int64("lines_to_server", summary.AtoB).
		Int64("lines_to_gui", summary.BtoA).
		Dur("duration", summary.Duration).
		Msg("session ended")

	return err
}

// openTrafficLog returns nil when logging is disabled or the file cannot be
// opened; the session then runs untapped.
func (a *App) openTrafficLog() *tap.FileSink {
	if !a.cfg.Log.Enabled {
		return nil
	}

	sink, err := tap.OpenFileSink(a.cfg.Log, a.logger)
	if err != nil {
		a.logger.Warn().Err(err).Str("file", a.cfg.Log.File).Msg("traffic log disabled")
		return nil
	}

	a.logger.Info().Str("file", a.cfg.Log.File).Str("format", a.cfg.Log.Format).Msg("traffic log enabled")
	return sink
}
