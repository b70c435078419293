package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every emitted log record, after the zap core.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirror atomic.Pointer[MirrorFunc]

// SetMirror installs a process-wide log mirror. Passing nil removes it.
func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirror.Store(nil)
		return
	}
	mirror.Store(&fn)
}

func mirrorLog(ctx context.Context, level Level, msg string, args ...any) {
	fn := mirror.Load()
	if fn == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	(*fn)(ctx, level, msg, args...)
}
