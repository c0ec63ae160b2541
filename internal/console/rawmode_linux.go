//go:build linux

package console

import (
	"sync"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/internal/exithook"
)

// RawMode turns off local echo on a terminal and owns the attributes it
// saved before doing so. The saved attributes are applied back at most once.
type RawMode struct {
	fd    int
	hooks *exithook.Registry

	mu      sync.Mutex
	saved   *unix.Termios
	release func()
}

// NewRawMode binds a controller to fd. Restoration is registered with hooks
// while echo is off; a nil registry means the process-wide one.
func NewRawMode(fd int, hooks *exithook.Registry) *RawMode {
	if hooks == nil {
		hooks = exithook.Default()
	}
	return &RawMode{fd: fd, hooks: hooks}
}

// Enter saves the current attributes and clears ECHO, flushing pending I/O
// before the change takes effect.
func (r *RawMode) Enter() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved != nil {
		return nil
	}
	tio, err := unix.IoctlGetTermios(r.fd, unix.TCGETS)
	if err != nil {
		return opError("tcgetattr()", err)
	}
	saved := *tio
	tio.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(r.fd, unix.TCSETSF, tio); err != nil {
		return opError("tcsetattr()", err)
	}
	r.saved = &saved
	r.release = r.hooks.Register("restore terminal attributes", r.Restore)
	return nil
}

// Active reports whether echo is currently disabled by this controller.
func (r *RawMode) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved != nil
}

// Restore applies the saved attributes. It is a no-op when Enter has not
// succeeded or the attributes were already restored.
func (r *RawMode) Restore() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return nil
	}
	saved := r.saved
	release := r.release
	r.saved = nil
	r.release = nil
	if release != nil {
		release()
	}
	return opError("tcsetattr()", unix.IoctlSetTermios(r.fd, unix.TCSETSF, saved))
}
