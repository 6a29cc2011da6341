//go:build windows

package engine

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setProcAttr keeps console engines from opening a window of their own.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}

// Windows has no SIGTERM for console processes; closing stdin is the polite
// request, so the signal step kills directly.
func signalTerminate(p *os.Process) error {
	return p.Kill()
}

func forceKill(p *os.Process) error {
	return p.Kill()
}
