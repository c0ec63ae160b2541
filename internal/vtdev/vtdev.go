//go:build linux

// Package vtdev resolves a device path to a kernel virtual console index.
package vtdev

import (
	"fmt"

	"golang.org/x/sys/unix"

	"pkt.systems/vcsnoop/schema"
)

// ttyMajor is the character-device major number of /dev/ttyN.
const ttyMajor = 4

// Validate stats path and returns its console index. Anything other than a
// character device on the tty major with a minor in the console range is
// reported as schema.ErrNotConsole.
func Validate(path string) (schema.ConsoleIndex, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	index, err := classify(st.Mode, uint64(st.Rdev))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return index, nil
}

func classify(mode uint32, rdev uint64) (schema.ConsoleIndex, error) {
	if mode&unix.S_IFMT != unix.S_IFCHR {
		return 0, schema.ErrNotConsole
	}
	if unix.Major(rdev) != ttyMajor {
		return 0, schema.ErrNotConsole
	}
	minor := unix.Minor(rdev)
	if minor > uint32(schema.MaxConsole) {
		return 0, schema.ErrNotConsole
	}
	index := schema.ConsoleIndex(minor)
	if !index.Valid() {
		return 0, schema.ErrNotConsole
	}
	return index, nil
}
