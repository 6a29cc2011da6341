package line

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
)

// DefaultMaxLineLength bounds a single line to 1 MiB.
const DefaultMaxLineLength = 1 << 20

const readBufferSize = 64 << 10

// CloserFunc adapts a function to io.Closer.
type CloserFunc func() error

// Close calls f.
func (f CloserFunc) Close() error { return f() }

// Option configures a Channel.
type Option func(*Channel)

// WithClosers registers resources released by Close, in order.
func WithClosers(closers ...io.Closer) Option {
	return func(c *Channel) {
		c.closers = append(c.closers, closers...)
	}
}

// WithMaxLineLength overrides DefaultMaxLineLength. n <= 0 disables the
// limit.
func WithMaxLineLength(n int) Option {
	return func(c *Channel) {
		c.maxLineLength = n
	}
}

// Channel implements Conn over an io.Reader and io.Writer pair.
type Channel struct {
	name          string
	maxLineLength int

	readMu  sync.Mutex
	reader  *bufio.Reader
	readErr error

	writeMu sync.Mutex
	writer  *bufio.Writer

	closers   []io.Closer
	closeOnce sync.Once
	closeErr  error
}

// New builds a Channel that reads lines from r and writes lines to w.
// Nothing is closed unless closers are registered with WithClosers.
func New(name string, r io.Reader, w io.Writer, opts ...Option) *Channel {
	c := &Channel{
		name:          name,
		maxLineLength: DefaultMaxLineLength,
		reader:        bufio.NewReaderSize(r, readBufferSize),
		writer:        bufio.NewWriter(w),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewConn builds a Channel over a network connection and closes the
// connection on Close.
func NewConn(name string, conn net.Conn, opts ...Option) *Channel {
	opts = append([]Option{WithClosers(conn)}, opts...)
	return New(name, conn, conn, opts...)
}

// Name implements Conn.
func (c *Channel) Name() string {
	return c.name
}

// ReadLine implements Conn.
//
// Partial reads are buffered until a terminator arrives. When the stream
// ends cleanly after an unterminated tail, the tail is returned as the last
// line and the following call returns io.EOF. A tail cut short by any other
// error is discarded and the error is returned. Errors are sticky.
func (c *Channel) ReadLine() (string, error) {
	c.readMu.Lock()
	defer c.readMu.Unlock()

	if c.readErr != nil {
		return "", c.readErr
	}

	var buf []byte
	for {
		chunk, err := c.reader.ReadSlice('\n')
		buf = append(buf, chunk...)

		payload := len(buf)
		if err == nil {
			payload--
		}
		if c.maxLineLength > 0 && payload > c.maxLineLength {
			c.readErr = fmt.Errorf("%s: %w (limit %d bytes)", c.name, ErrLineTooLong, c.maxLineLength)
			return "", c.readErr
		}

		switch {
		case err == nil:
			return string(buf[:len(buf)-1]), nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(buf) > 0:
			c.readErr = io.EOF
			return string(buf), nil
		default:
			c.readErr = err
			return "", err
		}
	}
}

// WriteLine implements Conn.
func (c *Channel) WriteLine(line string) error {
	if strings.IndexByte(line, '\n') >= 0 {
		return fmt.Errorf("%s: %w", c.name, ErrEmbeddedNewline)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if _, err := c.writer.WriteString(line); err != nil {
		return err
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return err
	}

	return c.writer.Flush()
}

// Close implements Conn. Errors from all closers are joined; errors that
// only say the resource was already gone are dropped.
func (c *Channel) Close() error {
	c.closeOnce.Do(func() {
		var errs []error
		for _, closer := range c.closers {
			if err := closer.Close(); err != nil && !IsExpectedCloseError(err) {
				errs = append(errs, err)
			}
		}
		c.closeErr = errors.Join(errs...)
	})

	return c.closeErr
}
