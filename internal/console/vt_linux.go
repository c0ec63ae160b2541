//go:build linux

package console

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/schema"
)

// vtStat mirrors struct vt_stat.
type vtStat struct {
	Active uint16
	Signal uint16
	State  uint16
}

// ActiveConsole returns the console currently in the foreground.
func ActiveConsole(fd int) (schema.ConsoleIndex, error) {
	var st vtStat
	if err := ioctlPtr(fd, reqVTGetState, unsafe.Pointer(&st)); err != nil {
		return 0, opError("VT_GETSTATE", err)
	}
	return schema.ConsoleIndex(st.Active), nil
}

// SwitchTo activates index and blocks until the kernel reports it in the
// foreground.
func SwitchTo(fd int, index schema.ConsoleIndex) error {
	if err := unix.IoctlSetInt(fd, reqVTActivate, int(index)); err != nil {
		return opError("VT_ACTIVATE", err)
	}
	err := ignoringEINTR(func() error {
		return unix.IoctlSetInt(fd, reqVTWaitActive, int(index))
	})
	return opError("VT_WAITACTIVE", err)
}
