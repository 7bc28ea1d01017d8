package hostfuncs

import (
	"context"
	"log/slog"
)

// Middleware is a function that wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Example usage:
//
//	timing := func(next ByteHandler) ByteHandler {
//	    return func(ctx context.Context, payload []byte) ([]byte, error) {
//	        start := time.Now()
//	        defer func() { metrics.Observe(time.Since(start)) }()
//	        return next(ctx, payload)
//	    }
//	}
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON, so a failing host function surfaces
// in the calling script as a thrown Error instead of tearing down the
// interpreter.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs host function invocations
// at debug level and failures at warn level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName, depth := "unknown", 0
			if hc, ok := HostContextFrom(ctx); ok {
				funcName, depth = hc.FunctionName(), hc.Depth()
			}
			logger.DebugContext(ctx, "invoking host function", "function", funcName, "depth", depth, "payload_bytes", len(payload))
			resp, err := next(ctx, payload)
			if err != nil {
				logger.WarnContext(ctx, "host function failed", "function", funcName, "error", err)
			}
			return resp, err
		}
	}
}
