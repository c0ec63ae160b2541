package console

import (
	"encoding/binary"
	"testing"
)

func TestFullScreenSetSelectionRequest(t *testing.T) {
	req := newTIOCLRequest(tioclSetSel, FullScreen)
	if req[0] != tioclSetSel {
		t.Fatalf("subcode = %d, want %d", req[0], tioclSetSel)
	}
	fields := []struct {
		name   string
		offset int
		want   uint16
	}{
		{name: "xs", offset: 1, want: 1},
		{name: "ys", offset: 3, want: 1},
		{name: "xe", offset: 5, want: 32767},
		{name: "ye", offset: 7, want: 32767},
		{name: "sel_mode", offset: 9, want: uint16(SelectLines)},
	}
	for _, f := range fields {
		if got := binary.NativeEndian.Uint16(req[f.offset:]); got != f.want {
			t.Fatalf("%s = %d, want %d", f.name, got, f.want)
		}
	}
}

func TestPasteSelectionRequest(t *testing.T) {
	req := newTIOCLRequest(tioclPasteSel, Selection{})
	if req[0] != tioclPasteSel {
		t.Fatalf("subcode = %d, want %d", req[0], tioclPasteSel)
	}
	for i, b := range req[1:] {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i+1, b)
		}
	}
}
