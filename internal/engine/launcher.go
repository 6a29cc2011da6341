package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

// waitDelay bounds how long Wait keeps copying stderr after the process has
// exited, in case a grandchild still holds the pipe open.
const waitDelay = time.Second

// ConnName is the name of every engine line channel.
const ConnName = "engine"

// Launcher starts engine processes from a fixed configuration.
type Launcher struct {
	cfg           config.Engine
	maxLineLength int
	logger        *logger.Logger
}

// NewLauncher returns a Launcher for cfg. maxLineLength is applied to the
// engine's stdout channel.
func NewLauncher(cfg config.Engine, maxLineLength int, logger *logger.Logger) *Launcher {
	return &Launcher{
		cfg:           cfg,
		maxLineLength: maxLineLength,
		logger:        logger,
	}
}

// Launch implements Spawner.
func (l *Launcher) Launch(ctx context.Context) (Handle, error) {
	return l.launch(ctx)
}

func (l *Launcher) launch(ctx context.Context) (*Process, error) {
	if l.cfg.Path == "" {
		return nil, fmt.Errorf("%w: no engine path configured", ErrSpawnFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSpawnFailed, err)
	}

	// os.Pipe rather than cmd.StdoutPipe: Wait must not close the read end
	// while the relay is still draining it.
	stdinR, stdinW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", ErrSpawnFailed, err)
	}
	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		closeAll(stdinR, stdinW)
		return nil, fmt.Errorf("%w: stdout pipe: %v", ErrSpawnFailed, err)
	}

	stderr := newStderrWriter(l.logger)

	cmd := exec.Command(l.cfg.Path, l.cfg.Args...)
	cmd.Dir = l.cfg.WorkDir
	cmd.Env = append(os.Environ(), l.cfg.Env...)
	cmd.Stdin = stdinR
	cmd.Stdout = stdoutW
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	setProcAttr(cmd)

	if err := cmd.Start(); err != nil {
		closeAll(stdinR, stdinW, stdoutR, stdoutW)
		return nil, fmt.Errorf("%w: start %s: %v", ErrSpawnFailed, l.cfg.Path, err)
	}

	// The child holds its own copies now.
	closeAll(stdinR, stdoutW)

	grace := l.cfg.TerminateTimeout
	if grace <= 0 {
		grace = config.DefaultTerminateTimeout
	}

	p := &Process{
		cmd:    cmd,
		grace:  grace,
		done:   make(chan struct{}),
		logger: l.logger,
	}
	p.conn = line.New(ConnName, stdoutR, stdinW,
		line.WithMaxLineLength(l.maxLineLength),
		line.WithClosers(stdinW, stdoutR),
	)

	l.logger.Info().
		Int("pid", p.PID()).
		Str("path", l.cfg.Path).
		Strs("args", l.cfg.Args).
		Msg("engine started")

	go p.wait(stderr)

	return p, nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
