package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/vcsnoop/schema"
)

type contextKey int

const (
	targetKey contextKey = iota
)

// WithTarget annotates the logger with the captured console if the context
// logger does not already carry it.
func WithTarget(ctx context.Context, target schema.ConsoleIndex) pslog.Logger {
	log := pslog.Ctx(ctx)
	if target == 0 {
		return log
	}
	if current, ok := ctx.Value(targetKey).(schema.ConsoleIndex); ok && current == target {
		return log
	}
	return log.With("target", int(target))
}

// WithOrigin annotates the logger with the console that was active at start.
func WithOrigin(log pslog.Logger, origin schema.ConsoleIndex) pslog.Logger {
	if origin != 0 {
		log = log.With("origin", int(origin))
	}
	return log
}

// WithDevice annotates the logger with a device path when available.
func WithDevice(log pslog.Logger, path string) pslog.Logger {
	if path != "" {
		log = log.With("device", path)
	}
	return log
}

// ContextWithTarget attaches the logger and target marker to the context.
func ContextWithTarget(ctx context.Context, log pslog.Logger, target schema.ConsoleIndex) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	if target == 0 {
		return ctx
	}
	return context.WithValue(ctx, targetKey, target)
}
