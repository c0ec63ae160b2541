// Package brokenpipe gives vcsnoop conventional pipeline behavior when its
// standard output is closed by the consumer.
package brokenpipe

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"

	"pkt.systems/pslog"
)

// ExitStatus is the shell status of a process killed by SIGPIPE.
const ExitStatus = 128 + int(unix.SIGPIPE)

// Hold routes SIGPIPE to vcsnoop while output is being relayed, so a write
// to a closed standard output returns EPIPE instead of killing the process
// before the paste stream is drained. The returned func ends the hold.
func Hold() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, unix.SIGPIPE)
	var once sync.Once
	return func() {
		once.Do(func() { signal.Stop(ch) })
	}
}

// Terminate delivers SIGPIPE to the process group and then lets the runtime
// apply its default disposition by writing to the broken out. It returns
// ExitStatus only if the process is still alive afterwards.
func Terminate(ctx context.Context, out *os.File) int {
	log := pslog.Ctx(ctx)
	signal.Reset(unix.SIGPIPE)
	log.Debug("output pipe closed, signalling process group")
	if err := unix.Kill(0, unix.SIGPIPE); err != nil {
		log.Warn("signal process group failed", "err", err)
	}
	if out != nil {
		_, _ = out.Write([]byte{'\n'})
	}
	return ExitStatus
}
