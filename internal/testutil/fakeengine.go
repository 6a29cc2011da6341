// Package testutil holds helpers shared by process-level tests.
//
// Packages that spawn engines call RunFakeEngineIfRequested from TestMain.
// When the test binary is re-executed with FakeEngineEnv set, it behaves as
// a minimal UCI engine instead of running tests.
package testutil

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MKhiriev/uci-relay/internal/config"
)

// FakeEngineEnv selects the fake engine mode in a re-executed test binary.
const FakeEngineEnv = "UCI_RELAY_FAKE_ENGINE"

// Fake engine modes.
const (
	// ModeUCI exits on stdin EOF or "quit".
	ModeUCI = "uci"
	// ModeSleepy keeps running after stdin EOF until it is signalled.
	ModeSleepy = "sleepy"
	// ModeStubborn ignores SIGTERM and keeps running after stdin EOF.
	ModeStubborn = "stubborn"
)

// FakeEngineName is reported in the "id name" reply.
const FakeEngineName = "FakeEngine"

// RunFakeEngineIfRequested turns the current process into a fake engine and
// exits when FakeEngineEnv is set. It returns immediately otherwise.
func RunFakeEngineIfRequested() {
	mode, ok := os.LookupEnv(FakeEngineEnv)
	if !ok {
		return
	}
	os.Exit(RunFakeEngine(mode, os.Stdin, os.Stdout, os.Stderr))
}

// FakeEngineConfig returns an engine configuration that re-executes the
// running test binary as a fake engine in the given mode.
func FakeEngineConfig(mode string) config.Engine {
	return config.Engine{
		Path:             os.Args[0],
		Env:              []string{FakeEngineEnv + "=" + mode},
		TerminateTimeout: 2 * time.Second,
	}
}

// RunFakeEngine serves commands from in until EOF and returns the exit code.
//
// Commands:
//
//	uci            id name, id author, uciok
//	isready        readyok
//	pid            pid <process id>
//	cwd            cwd <working directory>
//	env <KEY>      env <value>
//	echo <text>    <text>, byte for byte
//	spam <n>       n lines "info string <i>"
//	stderr <text>  <text> on stderr
//	partial <text> <text> without a terminator, then exit 0
//	crash          exit 3
//	quit           exit 0
func RunFakeEngine(mode string, in io.Reader, out, errOut io.Writer) int {
	if mode == ModeStubborn {
		signal.Ignore(syscall.SIGTERM)
	}

	reader := bufio.NewReader(in)
	for {
		raw, err := reader.ReadString('\n')
		if err != nil {
			if mode == ModeSleepy || mode == ModeStubborn {
				for {
					time.Sleep(time.Hour)
				}
			}
			return 0
		}
		cmd := strings.TrimSuffix(raw, "\n")
		name, arg, _ := strings.Cut(cmd, " ")

		switch name {
		case "uci":
			fmt.Fprintf(out, "id name %s\nid author uci-relay\nuciok\n", FakeEngineName)
		case "isready":
			fmt.Fprintln(out, "readyok")
		case "pid":
			fmt.Fprintf(out, "pid %d\n", os.Getpid())
		case "cwd":
			wd, _ := os.Getwd()
			fmt.Fprintf(out, "cwd %s\n", wd)
		case "env":
			fmt.Fprintf(out, "env %s\n", os.Getenv(arg))
		case "echo":
			fmt.Fprintf(out, "%s\n", arg)
		case "spam":
			n, _ := strconv.Atoi(arg)
			for i := 0; i < n; i++ {
				fmt.Fprintf(out, "info string %d\n", i)
			}
		case "stderr":
			fmt.Fprintln(errOut, arg)
		case "partial":
			fmt.Fprint(out, arg)
			return 0
		case "crash":
			return 3
		case "quit":
			return 0
		}
	}
}
