// Package relay drains the pasted selection from the console handle to an
// output writer on a background goroutine.
package relay

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/schema"
	"pkt.systems/pslog"
)

const (
	// IdleQuantum bounds each wait for input. The first wait must see data.
	IdleQuantum = time.Second
	// DefaultChunkSize matches PIPE_BUF so each forwarded chunk is one atomic pipe write.
	DefaultChunkSize = 4096
	// MaxChunkSize caps the read buffer.
	MaxChunkSize = 64 * 1024
)

// ErrIdleTimeout is returned when no input arrived within the first quantum.
var ErrIdleTimeout = schema.ErrIdleTimeout

// Source is the readable side of the console handle.
type Source interface {
	// WaitReadable reports whether input is available before timeout elapses.
	WaitReadable(timeout time.Duration) (bool, error)
	// Read returns zero bytes and a nil error at end of stream.
	Read(p []byte) (int, error)
}

// Outcome is what the reader observed once the stream ended.
type Outcome struct {
	// Read is the number of bytes drained from the source.
	Read int64
	// Forwarded is the number of bytes accepted by the output.
	Forwarded int64
	// WriteErr is the first forwarding failure. Draining continues past it.
	WriteErr error
}

// Config controls a Reader.
type Config struct {
	ChunkSize int
}

// Reader is a single running drain.
type Reader struct {
	ready chan struct{}
	done  chan result
}

type result struct {
	outcome Outcome
	err     error
}

// Start launches the drain and returns once the goroutine is about to wait
// for its first input, so a paste requested afterwards cannot be missed.
func Start(ctx context.Context, src Source, dst io.Writer, cfg Config) *Reader {
	chunk := cfg.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	if chunk > MaxChunkSize {
		chunk = MaxChunkSize
	}
	r := &Reader{
		ready: make(chan struct{}),
		done:  make(chan result, 1),
	}
	log := pslog.Ctx(ctx)
	go func() {
		buf := make([]byte, chunk)
		close(r.ready)
		outcome, err := drain(src, dst, buf)
		log.Debug("relay drained", "read", outcome.Read, "forwarded", outcome.Forwarded, "write_err", outcome.WriteErr, "err", err)
		r.done <- result{outcome: outcome, err: err}
	}()
	<-r.ready
	return r
}

// Wait blocks until the drain ends. The error is a wait or read failure, or
// ErrIdleTimeout; forwarding failures are reported in Outcome.WriteErr.
func (r *Reader) Wait() (Outcome, error) {
	res := <-r.done
	r.done <- res
	return res.outcome, res.err
}

func drain(src Source, dst io.Writer, buf []byte) (Outcome, error) {
	var out Outcome
	for {
		ready, err := src.WaitReadable(IdleQuantum)
		if err != nil {
			return out, err
		}
		if !ready {
			if out.Read == 0 {
				return out, ErrIdleTimeout
			}
			return out, nil
		}
		n, err := src.Read(buf)
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
		out.Read += int64(n)
		if out.WriteErr != nil {
			continue
		}
		m, err := dst.Write(buf[:n])
		out.Forwarded += int64(m)
		switch {
		case err != nil:
			out.WriteErr = err
		case m != n:
			out.WriteErr = fmt.Errorf("short write of %d/%d bytes: %w", m, n, unix.EIO)
		}
	}
}
