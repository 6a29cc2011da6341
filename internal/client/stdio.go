package client

import (
	"io"
	"os"
	"strings"

	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/muesli/cancelreader"
)

// quitCommand is the UCI command after which the GUI expects the engine to
// exit.
const quitCommand = "quit"

// openStdio wraps the GUI's stdin and stdout in a line channel. A file stdin
// goes through a cancelreader so teardown can interrupt a blocked read.
// Files the platform cannot poll, such as redirected regular files, are read
// directly.
func (a *App) openStdio() line.Conn {
	var (
		in      io.Reader = a.stdin
		closers []io.Closer
	)

	if f, ok := a.stdin.(*os.File); ok {
		cr, err := cancelreader.NewReader(f)
		if err != nil {
			a.logger.Debug().Err(err).Msg("stdin is not cancellable, reading it directly")
		} else {
			in = cr
			closers = append(closers, line.CloserFunc(func() error {
				cr.Cancel()
				return cr.Close()
			}))
		}
	}

	if a.closeStdin {
		if c, ok := a.stdin.(io.Closer); ok {
			closers = append(closers, c)
		}
	}

	return line.New(GUIConnName, in, a.stdout,
		line.WithMaxLineLength(a.cfg.Relay.MaxLineLength),
		line.WithClosers(closers...),
	)
}

// quitWatcher ends the GUI stream right after a quit command has been read.
// The command itself is still delivered, so the server sees it before the
// socket closes.
type quitWatcher struct {
	line.Conn
	quit bool
}

func watchQuit(conn line.Conn) line.Conn {
	return &quitWatcher{Conn: conn}
}

// ReadLine is called from a single goroutine, so quit needs no locking.
func (q *quitWatcher) ReadLine() (string, error) {
	if q.quit {
		return "", io.EOF
	}

	l, err := q.Conn.ReadLine()
	if err == nil && strings.TrimSpace(l) == quitCommand {
		q.quit = true
	}

	return l, err
}
