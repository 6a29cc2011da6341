package relay

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/uci-relay/internal/line"
	"github.com/MKhiriev/uci-relay/internal/logger"
)

// DefaultDrainTimeout bounds how long Run waits for the surviving loop once
// both endpoints have been closed.
const DefaultDrainTimeout = 2 * time.Second

// EndedByContext is reported in Summary.EndedBy when the caller's context
// ended the session.
const EndedByContext = "context"

// Summary reports how a session went. It is returned whether or not Run
// also returns an error.
type Summary struct {
	// A and B are the endpoint names, in constructor order.
	A, B string
	// EndedBy names the endpoint that stopped first, or EndedByContext.
	EndedBy string
	// Cause is what stopped the first loop (io.EOF for a clean close).
	Cause error
	// AtoB and BtoA count lines delivered in each direction.
	AtoB, BtoA int64
	Duration   time.Duration
}

// Option configures a Relay.
type Option func(*Relay)

// WithDrainTimeout overrides DefaultDrainTimeout.
func WithDrainTimeout(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.drainTimeout = d
		}
	}
}

// Relay forwards lines between two endpoints until one of them stops.
type Relay struct {
	a, b         line.Conn
	logger       *logger.Logger
	drainTimeout time.Duration

	ran  atomic.Bool
	atob atomic.Int64
	btoa atomic.Int64
}

type pumpResult struct {
	err *StreamError
}

// New creates a Relay between a and b. The relay borrows both endpoints and
// closes them before Run returns.
func New(a, b line.Conn, logger *logger.Logger, opts ...Option) *Relay {
	r := &Relay{
		a:            a,
		b:            b,
		logger:       logger,
		drainTimeout: DefaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run forwards lines in both directions until either endpoint reaches end of
// stream or fails, or ctx is done. Both endpoints are closed before Run
// returns.
//
// The error is nil when the session ended normally: a clean end of stream,
// a peer disconnect, or cancellation through ctx. Otherwise it is a
// *StreamError naming the side and operation that failed.
func (r *Relay) Run(ctx context.Context) (Summary, error) {
	if !r.ran.CompareAndSwap(false, true) {
		return Summary{}, ErrAlreadyRun
	}

	start := time.Now()
	summary := Summary{A: r.a.Name(), B: r.b.Name()}
	r.logger.Debug().Str("a", summary.A).Str("b", summary.B).Msg("relay started")

	done := make(chan pumpResult, 2)
	go r.pump(r.a, r.b, &r.atob, done)
	go r.pump(r.b, r.a, &r.btoa, done)

	pending := 2
	var first *StreamError
	select {
	case res := <-done:
		pending--
		first = res.err
	case <-ctx.Done():
		summary.EndedBy = EndedByContext
		summary.Cause = ctx.Err()
	}

	r.closeBoth()
	r.drain(done, pending)

	summary.AtoB = r.atob.Load()
	summary.BtoA = r.btoa.Load()
	summary.Duration = time.Since(start)

	if first == nil {
		return summary, nil
	}

	summary.EndedBy = first.Side
	summary.Cause = first.Err
	if line.IsExpectedCloseError(first.Err) {
		return summary, nil
	}

	return summary, first
}

// pump copies lines from src to dst, one at a time, until an operation fails.
func (r *Relay) pump(src, dst line.Conn, delivered *atomic.Int64, done chan<- pumpResult) {
	for {
		l, err := src.ReadLine()
		if err != nil {
			done <- pumpResult{err: &StreamError{Side: src.Name(), Op: "read", Err: err}}
			return
		}
		if err = dst.WriteLine(l); err != nil {
			done <- pumpResult{err: &StreamError{Side: dst.Name(), Op: "write", Err: err}}
			return
		}
		delivered.Add(1)
	}
}

func (r *Relay) closeBoth() {
	if err := r.a.Close(); err != nil {
		r.logger.Warn().Err(err).Str("side", r.a.Name()).Msg("close failed")
	}
	if err := r.b.Close(); err != nil {
		r.logger.Warn().Err(err).Str("side", r.b.Name()).Msg("close failed")
	}
}

// drain waits for the remaining loops after both endpoints were closed.
// A loop stuck on a stream that cannot be interrupted is abandoned after
// drainTimeout; done is buffered so it can still finish later.
func (r *Relay) drain(done <-chan pumpResult, pending int) {
	if pending == 0 {
		return
	}

	timer := time.NewTimer(r.drainTimeout)
	defer timer.Stop()

	for pending > 0 {
		select {
		case <-done:
			pending--
		case <-timer.C:
			r.logger.Warn().
				Int("loops", pending).
				Dur("drain_timeout", r.drainTimeout).
				Msg("relay loop did not stop after close")
			return
		}
	}
}
