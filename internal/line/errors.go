package line

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"github.com/muesli/cancelreader"
)

var (
	// ErrLineTooLong is returned by ReadLine when a line exceeds the
	// channel's maximum length before a terminator arrives.
	ErrLineTooLong = errors.New("line exceeds maximum length")
	// ErrEmbeddedNewline is returned by WriteLine when the payload itself
	// contains the line terminator.
	ErrEmbeddedNewline = errors.New("line payload contains a newline")
)

// IsExpectedCloseError reports whether err is a normal stream termination:
// EOF, a closed connection, file or pipe, a cancelled stdin read, a broken
// pipe or a connection reset. These happen during ordinary relay teardown
// when one side disconnects and the other side's in-flight I/O fails.
func IsExpectedCloseError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, cancelreader.ErrCanceled) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
