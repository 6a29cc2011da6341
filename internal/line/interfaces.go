package line

// Conn is a line-framed, bidirectional view of one byte stream.
//
// ReadLine and WriteLine may each be called from one goroutine at a time and
// may run concurrently with each other. Close unblocks pending calls on
// streams that support it (sockets, os.Pipe ends, cancellable readers).
type Conn interface {
	// Name identifies the endpoint in logs and errors ("gui", "socket",
	// "engine").
	Name() string

	// ReadLine returns the next line without its terminator. It returns
	// io.EOF once the stream has ended and every complete or final partial
	// line has been delivered.
	ReadLine() (string, error)

	// WriteLine writes line followed by '\n' and flushes it to the
	// underlying stream before returning.
	WriteLine(line string) error

	// Close releases the underlying stream. It is safe to call more than
	// once; only the first call has an effect.
	Close() error
}
