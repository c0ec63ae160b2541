package console

import (
	"encoding/binary"
	"math"
)

// SelectionMode is the tiocl_selection sel_mode value.
type SelectionMode uint16

// SelectLines expands the selection to whole lines.
const SelectLines SelectionMode = 2

// Selection is a rectangular span of the visible screen, 1-based and
// inclusive. The kernel clamps coordinates to the screen size.
type Selection struct {
	XStart uint16
	YStart uint16
	XEnd   uint16
	YEnd   uint16
	Mode   SelectionMode
}

// FullScreen selects every visible line.
var FullScreen = Selection{
	XStart: 1,
	YStart: 1,
	XEnd:   math.MaxInt16,
	YEnd:   math.MaxInt16,
	Mode:   SelectLines,
}

// tioclRequest is the TIOCLINUX argument: one subcode byte followed by a
// packed struct tiocl_selection in host byte order.
type tioclRequest [11]byte

func newTIOCLRequest(subcode byte, sel Selection) tioclRequest {
	var req tioclRequest
	req[0] = subcode
	binary.NativeEndian.PutUint16(req[1:], sel.XStart)
	binary.NativeEndian.PutUint16(req[3:], sel.YStart)
	binary.NativeEndian.PutUint16(req[5:], sel.XEnd)
	binary.NativeEndian.PutUint16(req[7:], sel.YEnd)
	binary.NativeEndian.PutUint16(req[9:], uint16(sel.Mode))
	return req
}
