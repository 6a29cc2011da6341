//go:build !windows

package engine

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcAttr puts the engine in its own process group so signals reach any
// helper processes it forks.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func signalTerminate(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

func forceKill(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig unix.Signal) error {
	if err := unix.Kill(-p.Pid, sig); err == nil {
		return nil
	}
	return p.Signal(sig)
}
