//go:build linux

package console

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Request numbers from linux/vt.h and asm-generic/ioctls.h.
const (
	reqVTGetState   = 0x5603
	reqVTActivate   = 0x5606
	reqVTWaitActive = 0x5607
	reqTIOCLINUX    = 0x541c
)

// Subcodes from linux/tiocl.h.
const (
	tioclSetSel   = 2
	tioclPasteSel = 3
)

func ioctlPtr(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// ignoringEINTR restarts fn while a signal interrupts it before it completes.
func ignoringEINTR(fn func() error) error {
	for {
		err := fn()
		if err != unix.EINTR {
			return err
		}
	}
}
