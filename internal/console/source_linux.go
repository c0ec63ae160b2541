//go:build linux

package console

import (
	"time"

	"golang.org/x/sys/unix"
)

// FDSource waits on and reads from a raw file descriptor.
type FDSource struct {
	fd int
}

// NewFDSource wraps fd. The caller keeps ownership of the descriptor.
func NewFDSource(fd int) *FDSource {
	return &FDSource{fd: fd}
}

// WaitReadable blocks until fd has input or timeout elapses. It reports
// false on timeout.
func (s *FDSource) WaitReadable(timeout time.Duration) (bool, error) {
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	var n int
	err := ignoringEINTR(func() error {
		var err error
		n, err = unix.Poll(fds, int(timeout/time.Millisecond))
		return err
	})
	if err != nil {
		return false, opError("poll()", err)
	}
	return n > 0, nil
}

// Read reads up to len(p) bytes. A zero count with a nil error is end of
// stream.
func (s *FDSource) Read(p []byte) (int, error) {
	var n int
	err := ignoringEINTR(func() error {
		var err error
		n, err = unix.Read(s.fd, p)
		return err
	})
	if err != nil {
		return 0, opError("read()", err)
	}
	return n, nil
}
