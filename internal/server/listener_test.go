// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/engine"
	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
	"github.com/MKhiriev/uci-relay/internal/mock"
	"github.com/MKhiriev/uci-relay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func testServerConfig() *config.ServerConfig {
	defaults := config.Defaults()
	cfg := &config.ServerConfig{
		Engine: testutil.FakeEngineConfig(testutil.ModeUCI),
		Server: defaults.Server,
		Relay:  defaults.Relay,
	}
	cfg.Server.BindAddress = "127.0.0.1:0"
	return cfg
}

func fakeLauncher() *engine.Launcher {
	cfg := testServerConfig()
	return engine.NewLauncher(cfg.Engine, cfg.Relay.MaxLineLength, logger.Nop())
}

// startListener binds a listener on a loopback port and serves it until the
// test ends.
func startListener(t *testing.T, spawner engine.Spawner, opts ...Option) *Listener {
	t.Helper()
	l, err := NewListener(testServerConfig(), spawner, logger.Nop(), opts...)
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- l.Serve(context.Background()) }()

	t.Cleanup(func() {
		require.NoError(t, l.Close())
		select {
		case err := <-served:
			assert.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("Serve did not return after Close")
		}
	})

	require.Eventually(t, func() bool {
		return l.State() == StateAwaitingConnection
	}, 5*time.Second, 5*time.Millisecond)

	return l
}

func dial(t *testing.T, l *Listener) *line.Channel {
	t.Helper()
	conn, err := net.DialTimeout("tcp", l.Addr().String(), 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, conn.SetDeadline(time.Now().Add(15*time.Second)))

	ch := line.NewConn("gui", conn)
	t.Cleanup(func() { _ = ch.Close() })
	return ch
}

func expectLine(t *testing.T, conn line.Conn, want string) {
	t.Helper()
	got, err := conn.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func waitSessions(t *testing.T, l *Listener, n int64) {
	t.Helper()
	require.Eventually(t, func() bool {
		return l.Stats().SessionsServed >= n
	}, 10*time.Second, 10*time.Millisecond)
}

type fixedIDs struct{ ids []string }

func (f *fixedIDs) Generate() string {
	id := f.ids[0]
	f.ids = f.ids[1:]
	return id
}

// ── sessions with a real engine ───────────────────────────────────────────────

func TestListener_UCIHandshake(t *testing.T) {
	l := startListener(t, fakeLauncher())
	gui := dial(t, l)

	require.NoError(t, gui.WriteLine("uci"))
	expectLine(t, gui, "id name "+testutil.FakeEngineName)
	expectLine(t, gui, "id author uci-relay")
	expectLine(t, gui, "uciok")

	require.NoError(t, gui.WriteLine("isready"))
	expectLine(t, gui, "readyok")

	stats := l.Stats()
	assert.Equal(t, StateSessionActive.String(), stats.State)
	require.NotNil(t, stats.ActiveSession)
	assert.Positive(t, stats.ActiveSession.EnginePID)
}

func TestListener_PayloadUnchanged(t *testing.T) {
	l := startListener(t, fakeLauncher())
	gui := dial(t, l)

	for _, payload := range []string{"info string a\r", "", "  x  y  "} {
		require.NoError(t, gui.WriteLine("echo "+payload))
		expectLine(t, gui, payload)
	}
}

func TestListener_EngineExitClosesSocket(t *testing.T) {
	l := startListener(t, fakeLauncher())
	gui := dial(t, l)

	require.NoError(t, gui.WriteLine("crash"))

	_, err := gui.ReadLine()
	assert.ErrorIs(t, err, io.EOF)

	waitSessions(t, l, 1)
	last := l.Stats().LastSession
	require.NotNil(t, last)
	assert.Equal(t, engine.ConnName, last.EndedBy)
	assert.Empty(t, last.Error)
}

func TestListener_SequentialSessionsGetFreshEngines(t *testing.T) {
	l := startListener(t, fakeLauncher())

	pidOf := func() string {
		gui := dial(t, l)
		require.NoError(t, gui.WriteLine("pid"))
		got, err := gui.ReadLine()
		require.NoError(t, err)
		require.NoError(t, gui.Close())
		return got
	}

	first := pidOf()
	waitSessions(t, l, 1)
	second := pidOf()
	waitSessions(t, l, 2)

	assert.True(t, strings.HasPrefix(first, "pid "))
	assert.NotEqual(t, first, second)
	assert.Nil(t, l.Stats().ActiveSession)
}

func TestListener_SecondDialerWaitsForFirst(t *testing.T) {
	l := startListener(t, fakeLauncher())

	first := dial(t, l)
	require.NoError(t, first.WriteLine("isready"))
	expectLine(t, first, "readyok")

	// Queued in the backlog until the first session ends.
	second := dial(t, l)
	require.NoError(t, second.WriteLine("isready"))

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), l.Stats().SessionsServed)

	require.NoError(t, first.Close())
	expectLine(t, second, "readyok")
}

func TestListener_CloseEndsActiveSession(t *testing.T) {
	l, err := NewListener(testServerConfig(), fakeLauncher(), logger.Nop())
	require.NoError(t, err)

	served := make(chan error, 1)
	go func() { served <- l.Serve(context.Background()) }()

	gui := dial(t, l)
	require.NoError(t, gui.WriteLine("isready"))
	expectLine(t, gui, "readyok")

	require.NoError(t, l.Close())

	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return")
	}
	assert.Equal(t, StateStopped, l.State())

	_, err = gui.ReadLine()
	assert.Error(t, err)
}

func TestListener_ContextCancelStopsServe(t *testing.T) {
	l, err := NewListener(testServerConfig(), fakeLauncher(), logger.Nop())
	require.NoError(t, err)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- l.Serve(ctx) }()

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return")
	}
}

// ── sessions with mocks ───────────────────────────────────────────────────────

func TestListener_SpawnFailureKeepsListening(t *testing.T) {
	ctrl := gomock.NewController(t)
	spawner := mock.NewMockSpawner(ctrl)
	launcher := fakeLauncher()

	gomock.InOrder(
		spawner.EXPECT().Launch(gomock.Any()).Return(nil, engine.ErrSpawnFailed),
		spawner.EXPECT().Launch(gomock.Any()).DoAndReturn(launcher.Launch),
	)

	l := startListener(t, spawner)

	failed := dial(t, l)
	_, err := failed.ReadLine()
	assert.ErrorIs(t, err, io.EOF, "socket is closed when the engine cannot start")

	gui := dial(t, l)
	require.NoError(t, gui.WriteLine("isready"))
	expectLine(t, gui, "readyok")

	stats := l.Stats()
	assert.Equal(t, int64(1), stats.SpawnFailures)
}

func TestListener_TerminatesEngineWhenClientLeaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	spawner := mock.NewMockSpawner(ctrl)
	handle := mock.NewMockHandle(ctrl)

	engineEnd, serverEnd := net.Pipe()
	fakeEngine := line.NewConn("fake-engine", engineEnd)
	defer fakeEngine.Close()

	terminated := make(chan struct{})
	spawner.EXPECT().Launch(gomock.Any()).Return(handle, nil)
	handle.EXPECT().Conn().Return(line.NewConn(engine.ConnName, serverEnd)).AnyTimes()
	handle.EXPECT().PID().Return(4242).AnyTimes()
	handle.EXPECT().Terminate(gomock.Any()).DoAndReturn(func(context.Context) error {
		close(terminated)
		return nil
	})

	l := startListener(t, spawner, WithIDGenerator(&fixedIDs{ids: []string{"session-1"}}))
	gui := dial(t, l)

	require.NoError(t, gui.WriteLine("go depth 10"))
	expectLine(t, fakeEngine, "go depth 10")
	require.NoError(t, fakeEngine.WriteLine("bestmove e2e4"))
	expectLine(t, gui, "bestmove e2e4")

	active := l.Stats().ActiveSession
	require.NotNil(t, active)
	assert.Equal(t, "session-1", active.ID)
	assert.Equal(t, 4242, active.EnginePID)

	require.NoError(t, gui.Close())

	select {
	case <-terminated:
	case <-time.After(5 * time.Second):
		t.Fatal("engine was not terminated")
	}
	waitSessions(t, l, 1)

	last := l.Stats().LastSession
	require.NotNil(t, last)
	assert.Equal(t, "session-1", last.ID)
	assert.Equal(t, ClientConnName, last.EndedBy)
	assert.Equal(t, int64(1), last.LinesToEngine)
	assert.Equal(t, int64(1), last.LinesToClient)
}

// ── lifecycle ─────────────────────────────────────────────────────────────────

func TestNewListener_BindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	cfg := testServerConfig()
	cfg.Server.BindAddress = taken.Addr().String()

	l, err := NewListener(cfg, fakeLauncher(), logger.Nop())
	assert.Nil(t, l)
	assert.ErrorIs(t, err, ErrBind)
}

func TestListener_ServeTwice(t *testing.T) {
	l := startListener(t, fakeLauncher())
	assert.ErrorIs(t, l.Serve(context.Background()), ErrAlreadyServing)
}

func TestListener_InitialState(t *testing.T) {
	l, err := NewListener(testServerConfig(), fakeLauncher(), logger.Nop())
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, StateIdle, l.State())
	stats := l.Stats()
	assert.Equal(t, "idle", stats.State)
	assert.Equal(t, l.Addr().String(), stats.Address)
	assert.Nil(t, stats.ActiveSession)
	assert.Nil(t, stats.LastSession)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "awaiting_connection", StateAwaitingConnection.String())
	assert.Equal(t, "session_active", StateSessionActive.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(42).String())
}
