package schema

import "strconv"

// ConsoleIndex identifies a kernel virtual console (the N in /dev/ttyN).
type ConsoleIndex uint16

const (
	// MinConsole is the lowest virtual console number the kernel allocates.
	MinConsole ConsoleIndex = 1
	// MaxConsole is the highest virtual console number the kernel allocates.
	MaxConsole ConsoleIndex = 63
)

// Valid reports whether the index is inside the kernel console range.
func (c ConsoleIndex) Valid() bool {
	return c >= MinConsole && c <= MaxConsole
}

func (c ConsoleIndex) String() string {
	return strconv.Itoa(int(c))
}

// Device returns the conventional device path for the console.
func (c ConsoleIndex) Device() string {
	return "/dev/tty" + c.String()
}
