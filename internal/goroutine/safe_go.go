package goroutine

import (
	"context"
	"runtime/debug"

	"github.com/Zachkp/portfolio/internal/logger"
)

// SafeGo runs fn in a goroutine and logs a recovered panic instead of crashing the process.
func SafeGo(fn func()) {
	go func() {
		defer recoverPanic()
		fn()
	}()
}

// SafeGoWithContext is SafeGo for functions that take a context.
func SafeGoWithContext(ctx context.Context, fn func(context.Context)) {
	go func() {
		defer recoverPanic()
		fn(ctx)
	}()
}

func recoverPanic() {
	if r := recover(); r != nil {
		logger.Log.Errorf("panic in goroutine: %v\nstack trace:\n%s", r, debug.Stack())
	}
}
