//go:build linux

package console

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/internal/exithook"
	"pkt.systems/vcsnoop/schema"
)

// Config controls how a Device is opened.
type Config struct {
	// Path of the terminal whose input carries the pasted selection.
	Path string
	// SelectionFD is the invoking terminal the TIOCLINUX requests are
	// issued on. Zero is standard input.
	SelectionFD int
	// Hooks receives the echo restoration while echo is off.
	Hooks *exithook.Registry
}

// Device is the single open handle to the controlling terminal.
type Device struct {
	path  string
	fd    int
	selFD int
	raw   *RawMode
	*FDSource
}

// Open opens the controlling terminal read-write.
func Open(cfg Config) (*Device, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Device{
		path:     path,
		fd:       fd,
		selFD:    cfg.SelectionFD,
		raw:      NewRawMode(fd, cfg.Hooks),
		FDSource: NewFDSource(fd),
	}, nil
}

// Path returns the opened terminal path.
func (d *Device) Path() string {
	return d.path
}

// ActiveConsole returns the foreground console.
func (d *Device) ActiveConsole() (schema.ConsoleIndex, error) {
	return ActiveConsole(d.fd)
}

// Activate switches the foreground console and waits for the switch.
func (d *Device) Activate(index schema.ConsoleIndex) error {
	return SwitchTo(d.fd, index)
}

// SetSelection selects the whole visible screen of the foreground console.
func (d *Device) SetSelection() error {
	return SetSelection(d.selFD, FullScreen)
}

// PasteSelection replays the selection as input on the invoking terminal.
func (d *Device) PasteSelection() error {
	return PasteSelection(d.selFD)
}

// EnterRaw disables echo on the terminal.
func (d *Device) EnterRaw() error {
	return d.raw.Enter()
}

// RestoreRaw re-applies the attributes saved by EnterRaw.
func (d *Device) RestoreRaw() error {
	return d.raw.Restore()
}

// Close restores echo if it is still off and closes the descriptor.
func (d *Device) Close() error {
	if d == nil || d.fd < 0 {
		return nil
	}
	restoreErr := d.raw.Restore()
	closeErr := unix.Close(d.fd)
	d.fd = -1
	return errors.Join(restoreErr, opError("close()", closeErr))
}
