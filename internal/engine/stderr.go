package engine

import (
	"bytes"

	"github.com/MKhiriev/uci-relay/internal/logger"
)

// maxStderrLine caps a buffered stderr fragment before it is logged anyway.
const maxStderrLine = 4 << 10

// stderrWriter logs the engine's stderr line by line at debug level.
// os/exec writes to it from a single goroutine.
type stderrWriter struct {
	logger *logger.Logger
	buf    []byte
}

func newStderrWriter(logger *logger.Logger) *stderrWriter {
	return &stderrWriter{logger: logger}
}

func (w *stderrWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > maxStderrLine {
		w.flush()
	}

	return len(p), nil
}

func (w *stderrWriter) flush() {
	if len(w.buf) > 0 {
		w.emit(w.buf)
		w.buf = nil
	}
}

func (w *stderrWriter) emit(b []byte) {
	w.logger.Debug().Str("stream", "stderr").Msg(string(bytes.TrimRight(b, "\r")))
}
