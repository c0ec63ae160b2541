package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"pkt.systems/pslog"
	"pkt.systems/vcsnoop/internal/appconfig"
	"pkt.systems/vcsnoop/internal/console"
	"pkt.systems/vcsnoop/internal/logx"
	"pkt.systems/vcsnoop/internal/snoop"
	"pkt.systems/vcsnoop/internal/vtdev"
)

// captureSignals are held for the whole capture. Each of them would
// otherwise end or stop the process with the foreground console switched
// or echo off; SIGQUIT in particular dumps goroutines and exits without
// running deferred restoration.
var captureSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGTERM,
	syscall.SIGHUP,
	syscall.SIGQUIT,
	syscall.SIGTSTP,
}

// holdSignals defers captureSignals until stop is called. The returned
// context is cancelled when one arrives.
func holdSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, captureSignals...)
}

type captureOptions struct {
	ConfigPath string
	TTYPath    string
	Device     string
}

func runCapture(ctx context.Context, opts captureOptions) error {
	cfg, err := appconfig.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.TTYPath != "" {
		cfg.TTYPath = opts.TTYPath
	}

	index, err := vtdev.Validate(opts.Device)
	if err != nil {
		return err
	}
	logger := logx.WithDevice(pslog.Ctx(ctx), opts.Device).With("target", int(index))
	ctx = logx.ContextWithTarget(ctx, logger, index)

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("standard input: %w", unix.ENOTTY)
	}

	// The run is short and bounded; interrupts wait for it so the console
	// and echo state are put back before exiting.
	ctx, stop := holdSignals(ctx)
	defer stop()

	dev, err := console.Open(console.Config{Path: cfg.TTYPath})
	if err != nil {
		return err
	}
	defer func() {
		if err := dev.Close(); err != nil {
			logger.Warn("close terminal failed", "tty", dev.Path(), "err", err)
		}
	}()
	logger.Debug("terminal opened", "tty", dev.Path(), "chunk_size", cfg.ChunkSize)

	res, err := snoop.Run(ctx, dev, index, os.Stdout, snoop.Config{ChunkSize: cfg.ChunkSize})
	if err != nil {
		logger.Debug("capture aborted", "phase", res.Phase, "origin", int(res.Origin), "read", res.Relay.Read)
		return err
	}
	logger.Debug("capture complete", "origin", int(res.Origin), "bytes", res.Relay.Forwarded)
	return nil
}
