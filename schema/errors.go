package schema

import (
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrNotConsole indicates a path that is not a virtual console device.
	ErrNotConsole = fmt.Errorf("not a virtual console: %w", unix.ENOTTY)
	// ErrIdleTimeout indicates the paste stream produced no data within the first wait quantum.
	ErrIdleTimeout = fmt.Errorf("poll(): %w", unix.ETIME)
	// ErrBrokenPipe indicates standard output was closed by its consumer.
	ErrBrokenPipe = fmt.Errorf("write(): %w", unix.EPIPE)
)
