package tap

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/MKhiriev/uci-relay/internal/config"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

// TimeLayout is the timestamp format of both log formats.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FileSink is a Recorder that writes entries from a background worker.
// It implements workers.Worker.
type FileSink struct {
	out    *bufio.Writer
	closer io.Closer
	format string
	queue  chan Entry
	logger *logger.Logger

	jsonBuf bytes.Buffer
	json    zerolog.Logger

	dropped   atomic.Int64
	writeErrs atomic.Int64
	done      chan struct{}
}

// OpenFileSink opens cfg.File for appending, creating it when missing.
func OpenFileSink(cfg config.Log, logger *logger.Logger) (*FileSink, error) {
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenLog, err)
	}

	s := NewSink(f, cfg.Format, cfg.QueueSize, logger)
	s.closer = f
	return s, nil
}

// NewSink returns a FileSink writing to w. An unknown format falls back to
// text; queueSize <= 0 uses the default.
func NewSink(w io.Writer, format string, queueSize int, logger *logger.Logger) *FileSink {
	if queueSize <= 0 {
		queueSize = config.DefaultLogQueueSize
	}
	if format != config.LogFormatJSON {
		format = config.LogFormatText
	}

	s := &FileSink{
		out:    bufio.NewWriter(w),
		format: format,
		queue:  make(chan Entry, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	s.json = zerolog.New(&s.jsonBuf)
	return s
}

// Record implements Recorder. A full queue drops the entry.
func (s *FileSink) Record(e Entry) {
	select {
	case s.queue <- e:
	default:
		s.dropped.Add(1)
	}
}

// Run implements workers.Worker. It writes entries until ctx is cancelled,
// then writes whatever is still queued and closes the file.
func (s *FileSink) Run(ctx context.Context) {
	defer close(s.done)

	for {
		select {
		case e := <-s.queue:
			s.write(e)
			if len(s.queue) == 0 {
				s.flush()
			}
		case <-ctx.Done():
			s.drain()
			s.shutdown()
			return
		}
	}
}

// Done is closed once Run has returned.
func (s *FileSink) Done() <-chan struct{} {
	return s.done
}

// Dropped returns the number of entries lost to a full queue.
func (s *FileSink) Dropped() int64 {
	return s.dropped.Load()
}

// WriteErrors returns the number of failed writes.
func (s *FileSink) WriteErrors() int64 {
	return s.writeErrs.Load()
}

func (s *FileSink) drain() {
	for {
		select {
		case e := <-s.queue:
			s.write(e)
		default:
			return
		}
	}
}

func (s *FileSink) shutdown() {
	s.flush()
	if n := s.Dropped(); n > 0 {
		s.logger.Warn().Int64("dropped", n).Msg("traffic log queue overflowed")
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			s.failed(err)
		}
	}
}

func (s *FileSink) write(e Entry) {
	var err error
	switch s.format {
	case config.LogFormatJSON:
		s.jsonBuf.Reset()
		s.json.Log().
			Str("time", e.Time.Format(TimeLayout)).
			Str("dir", string(e.Dir)).
			Str("line", e.Line).
			Send()
		_, err = s.out.Write(s.jsonBuf.Bytes())
	default:
		_, err = fmt.Fprintf(s.out, "%s %s %s\n", e.Time.Format(TimeLayout), e.Dir, e.Line)
	}
	if err != nil {
		s.failed(err)
	}
}

func (s *FileSink) flush() {
	if err := s.out.Flush(); err != nil {
		s.failed(err)
	}
}

// failed counts a write error and logs only the first one.
func (s *FileSink) failed(err error) {
	if s.writeErrs.Add(1) == 1 {
		s.logger.Warn().Err(err).Msg("traffic log write failed")
	}
}
