// Package console drives the Linux virtual-terminal interfaces vcsnoop needs:
// console switching, the TIOCLINUX selection buffer, and echo control.
package console

// DefaultPath is the controlling terminal of the calling process.
const DefaultPath = "/dev/tty"
