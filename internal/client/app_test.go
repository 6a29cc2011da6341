package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── helpers ──

func testClientConfig(addr string) *config.ClientConfig {
	return &config.ClientConfig{
		Client: config.Client{
			ServerAddress: addr,
			DialTimeout:   time.Second,
			RetryBackoff:  time.Millisecond,
		},
		Log: config.Log{
			Format:    config.LogFormatText,
			QueueSize: 16,
		},
		Relay: config.Relay{
			MaxLineLength: config.DefaultMaxLineLength,
			DrainTimeout:  200 * time.Millisecond,
		},
	}
}

// fakeServer accepts a single connection and hands it to the test.
func fakeServer(t *testing.T) (string, <-chan *line.Channel) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	accepted := make(chan *line.Channel, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- line.NewConn("server", conn)
	}()

	return ln.Addr().String(), accepted
}

func acceptConn(t *testing.T, accepted <-chan *line.Channel) *line.Channel {
	t.Helper()
	select {
	case c := <-accepted:
		t.Cleanup(func() { _ = c.Close() })
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("client never connected")
		return nil
	}
}

type stdio struct {
	inW  *io.PipeWriter
	outR *bufio.Reader
	opt  Option
}

func newStdio(t *testing.T) *stdio {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	t.Cleanup(func() {
		_ = inW.Close()
		_ = outR.Close()
	})
	return &stdio{inW: inW, outR: bufio.NewReader(outR), opt: WithStdio(inR, outW)}
}

func (s *stdio) send(t *testing.T, l string) {
	t.Helper()
	_, err := io.WriteString(s.inW, l+"\n")
	require.NoError(t, err)
}

func (s *stdio) expect(t *testing.T, want string) {
	t.Helper()
	got := make(chan string, 1)
	go func() {
		l, _ := s.outR.ReadString('\n')
		got <- l
	}()
	select {
	case l := <-got:
		assert.Equal(t, want+"\n", l)
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %q on stdout", want)
	}
}

func runApp(ctx context.Context, app *App) <-chan error {
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()
	return done
}

func waitRun(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func expectSocket(t *testing.T, conn line.Conn, want string) {
	t.Helper()
	got, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// ── Connect ──

func TestConnect_Success(t *testing.T) {
	addr, accepted := fakeServer(t)

	conn, err := NewApp(testClientConfig(addr), logger.Nop()).Connect(context.Background())

	require.NoError(t, err)
	defer conn.Close()
	acceptConn(t, accepted)
}

func TestConnect_RetriesThenFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mock.NewMockDialer(ctrl)
	dialErr := errors.New("connection refused")

	cfg := testClientConfig("engine.example:6242")
	cfg.Client.ConnectRetries = 2
	dialer.EXPECT().
		DialContext(gomock.Any(), "tcp", "engine.example:6242").
		Return(nil, dialErr).
		Times(3)

	_, err := NewApp(cfg, logger.Nop(), WithDialer(dialer)).Connect(context.Background())

	require.ErrorIs(t, err, ErrConnectFailed)
	assert.ErrorIs(t, err, dialErr)
	assert.Contains(t, err.Error(), "engine.example:6242")
	assert.Contains(t, err.Error(), "3 attempt(s)")
}

func TestConnect_NoRetriesByDefault(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mock.NewMockDialer(ctrl)
	dialer.EXPECT().
		DialContext(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("no route to host")).
		Times(1)

	_, err := NewApp(testClientConfig("10.0.0.1:6242"), logger.Nop(), WithDialer(dialer)).Connect(context.Background())

	assert.ErrorIs(t, err, ErrConnectFailed)
}

func TestConnect_SucceedsAfterRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mock.NewMockDialer(ctrl)
	clientEnd, serverEnd := net.Pipe()
	defer serverEnd.Close()

	cfg := testClientConfig("127.0.0.1:6242")
	cfg.Client.ConnectRetries = 3
	gomock.InOrder(
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", "127.0.0.1:6242").Return(nil, errors.New("refused")),
		dialer.EXPECT().DialContext(gomock.Any(), "tcp", "127.0.0.1:6242").Return(clientEnd, nil),
	)

	conn, err := NewApp(cfg, logger.Nop(), WithDialer(dialer)).Connect(context.Background())

	require.NoError(t, err)
	assert.Same(t, clientEnd, conn)
	_ = conn.Close()
}

func TestConnect_DialTimeoutApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mock.NewMockDialer(ctrl)

	cfg := testClientConfig("192.0.2.1:6242")
	cfg.Client.DialTimeout = 50 * time.Millisecond
	dialer.EXPECT().
		DialContext(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string) (net.Conn, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "dial context must carry a deadline")
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := NewApp(cfg, logger.Nop(), WithDialer(dialer)).Connect(context.Background())

	require.ErrorIs(t, err, ErrConnectFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConnect_ContextCancelledStopsRetrying(t *testing.T) {
	ctrl := gomock.NewController(t)
	dialer := mock.NewMockDialer(ctrl)

	cfg := testClientConfig("127.0.0.1:6242")
	cfg.Client.ConnectRetries = 100
	cfg.Client.RetryBackoff = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	dialer.EXPECT().
		DialContext(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string, string) (net.Conn, error) {
			cancel()
			return nil, errors.New("refused")
		}).
		Times(1)

	start := time.Now()
	_, err := NewApp(cfg, logger.Nop(), WithDialer(dialer)).Connect(ctx)

	require.ErrorIs(t, err, ErrConnectFailed)
	assert.Less(t, time.Since(start), time.Second)
}

// ── Run ──

func TestRun_ConnectFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	gui := newStdio(t)
	err = NewApp(testClientConfig(addr), logger.Nop(), gui.opt).Run(context.Background())

	assert.ErrorIs(t, err, ErrConnectFailed)
}

func TestRun_RelaysBothDirections(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	done := runApp(context.Background(), NewApp(testClientConfig(addr), logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "uci")
	expectSocket(t, server, "uci")

	require.NoError(t, server.WriteLine("id name FakeEngine"))
	require.NoError(t, server.WriteLine("uciok"))
	gui.expect(t, "id name FakeEngine")
	gui.expect(t, "uciok")

	gui.send(t, "  spaced\tline\r")
	expectSocket(t, server, "  spaced\tline\r")

	require.NoError(t, server.Close())
	assert.NoError(t, waitRun(t, done))
}

func TestRun_QuitEndsSession(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	done := runApp(context.Background(), NewApp(testClientConfig(addr), logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "isready")
	expectSocket(t, server, "isready")
	gui.send(t, " quit ")
	expectSocket(t, server, " quit ")

	_, err := server.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, waitRun(t, done))
}

func TestRun_QuitPrefixIsForwarded(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	done := runApp(context.Background(), NewApp(testClientConfig(addr), logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "quitter")
	gui.send(t, "isready")
	expectSocket(t, server, "quitter")
	expectSocket(t, server, "isready")

	require.NoError(t, server.Close())
	assert.NoError(t, waitRun(t, done))
}

func TestRun_StdinEOFClosesSocket(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	done := runApp(context.Background(), NewApp(testClientConfig(addr), logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "go depth 1")
	require.NoError(t, gui.inW.Close())

	expectSocket(t, server, "go depth 1")
	_, err := server.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
	assert.NoError(t, waitRun(t, done))
}

func TestRun_ContextCancel(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := runApp(ctx, NewApp(testClientConfig(addr), logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	cancel()

	assert.NoError(t, waitRun(t, done))
	_, err := server.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestRun_CancelsBlockedStdinRead(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pipes are not cancellable on windows")
	}
	addr, accepted := fakeServer(t)

	inR, inW, err := os.Pipe()
	require.NoError(t, err)
	defer inW.Close()
	outR, outW, err := os.Pipe()
	require.NoError(t, err)
	defer outR.Close()
	defer outW.Close()

	cfg := testClientConfig(addr)
	cfg.Relay.DrainTimeout = 10 * time.Second
	done := runApp(context.Background(), NewApp(cfg, logger.Nop(), WithStdio(inR, outW)))
	server := acceptConn(t, accepted)

	start := time.Now()
	require.NoError(t, server.Close())

	assert.NoError(t, waitRun(t, done))
	assert.Less(t, time.Since(start), 5*time.Second, "stdin read must be interrupted, not drained")
}

func TestRun_TrafficLog(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	cfg := testClientConfig(addr)
	cfg.Log.Enabled = true
	cfg.Log.File = filepath.Join(t.TempDir(), "traffic.log")

	done := runApp(context.Background(), NewApp(cfg, logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "uci")
	expectSocket(t, server, "uci")
	require.NoError(t, server.WriteLine("uciok"))
	gui.expect(t, "uciok")
	gui.send(t, "quit")
	expectSocket(t, server, "quit")
	require.NoError(t, waitRun(t, done))

	data, err := os.ReadFile(cfg.Log.File)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], " >> uci"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " << uciok"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], " >> quit"), lines[2])
}

func TestRun_TrafficLogOpenFailureRunsUntapped(t *testing.T) {
	addr, accepted := fakeServer(t)
	gui := newStdio(t)
	cfg := testClientConfig(addr)
	cfg.Log.Enabled = true
	cfg.Log.File = filepath.Join(t.TempDir(), "missing", "dir", "traffic.log")

	done := runApp(context.Background(), NewApp(cfg, logger.Nop(), gui.opt))
	server := acceptConn(t, accepted)

	gui.send(t, "uci")
	expectSocket(t, server, "uci")
	require.NoError(t, server.Close())

	assert.NoError(t, waitRun(t, done))
	assert.NoFileExists(t, cfg.Log.File)
}

// ── quitWatcher ──

type scriptedConn struct {
	line.Conn
	lines []string
	reads int
}

func (s *scriptedConn) ReadLine() (string, error) {
	if s.reads >= len(s.lines) {
		return "", errors.New("read past script")
	}
	l := s.lines[s.reads]
	s.reads++
	return l, nil
}

func TestQuitWatcher(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		reads int
	}{
		{name: "plain quit", lines: []string{"uci", "quit", "never"}, reads: 2},
		{name: "padded quit", lines: []string{"\tquit \r", "never"}, reads: 1},
		{name: "not a quit", lines: []string{"quitting", "stop"}, reads: 2},
		{name: "uppercase is not quit", lines: []string{"QUIT", "stop"}, reads: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &scriptedConn{lines: tt.lines}
			w := watchQuit(inner)

			for i := 0; i < tt.reads; i++ {
				l, err := w.ReadLine()
				require.NoError(t, err)
				assert.Equal(t, tt.lines[i], l)
			}

			if inner.reads < len(tt.lines) && strings.TrimSpace(tt.lines[tt.reads-1]) == quitCommand {
				_, err := w.ReadLine()
				assert.ErrorIs(t, err, io.EOF)
				assert.Equal(t, tt.reads, inner.reads, "nothing is read after quit")
			}
		})
	}
}
