//go:build linux

package console

import "unsafe"

// SetSelection loads sel into the kernel selection buffer from the console
// that is in the foreground at the time of the call.
func SetSelection(fd int, sel Selection) error {
	req := newTIOCLRequest(tioclSetSel, sel)
	return opError("TIOCL_SETSEL", ioctlPtr(fd, reqTIOCLINUX, unsafe.Pointer(&req[0])))
}

// PasteSelection injects the selection buffer as input on the terminal
// behind fd.
func PasteSelection(fd int) error {
	req := newTIOCLRequest(tioclPasteSel, Selection{})
	return opError("TIOCL_PASTESEL", ioctlPtr(fd, reqTIOCLINUX, unsafe.Pointer(&req[0])))
}
