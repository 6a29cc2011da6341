package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

// Process is a Handle backed by an os/exec command.
type Process struct {
	cmd    *exec.Cmd
	conn   *line.Channel
	grace  time.Duration
	logger *logger.Logger

	done    chan struct{}
	exitErr error

	terminateOnce sync.Once
	terminateErr  error
}

// Conn implements Handle.
func (p *Process) Conn() line.Conn {
	return p.conn
}

// PID implements Handle.
func (p *Process) PID() int {
	return p.cmd.Process.Pid
}

// Done implements Handle.
func (p *Process) Done() <-chan struct{} {
	return p.done
}

// Running reports whether the process has not exited yet.
func (p *Process) Running() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// ExitErr returns the result of Wait once the process has exited, and nil
// while it is still running.
func (p *Process) ExitErr() error {
	select {
	case <-p.done:
		return p.exitErr
	default:
		return nil
	}
}

// Terminate implements Handle.
//
// The pipes are closed first, which is enough for engines that exit on
// stdin EOF. A process still running receives the termination signal, and
// is killed once the grace period or ctx runs out.
func (p *Process) Terminate(ctx context.Context) error {
	p.terminateOnce.Do(func() {
		p.terminateErr = p.terminate(ctx)
	})
	return p.terminateErr
}

func (p *Process) terminate(ctx context.Context) error {
	closeErr := p.conn.Close()

	select {
	case <-p.done:
		return closeErr
	default:
	}

	if err := signalTerminate(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		p.logger.Debug().Err(err).Int("pid", p.PID()).Msg("termination signal failed")
	}

	timer := time.NewTimer(p.grace)
	defer timer.Stop()

	select {
	case <-p.done:
		return closeErr
	case <-timer.C:
	case <-ctx.Done():
	}

	p.logger.Warn().Int("pid", p.PID()).Dur("grace", p.grace).Msg("engine did not exit, killing it")

	var killErr error
	if err := forceKill(p.cmd.Process); err != nil && !errors.Is(err, os.ErrProcessDone) {
		killErr = err
	}
	<-p.done

	return errors.Join(closeErr, killErr)
}

func (p *Process) wait(stderr *stderrWriter) {
	err := p.cmd.Wait()
	stderr.flush()

	p.exitErr = err
	close(p.done)

	event := p.logger.Info().Int("pid", p.PID())
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("engine exited")
}
