package host

import (
	"context"
	"errors"
	"sync"

	"github.com/reglet-dev/pate/application/validation"
	domainerrors "github.com/reglet-dev/pate/domain/errors"
)

var (
	mu       sync.Mutex
	instance *interpreter
)

func current() *interpreter {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Load brings up the interpreter. It is a no-op when one is already loaded.
//
// A missing or unreadable script library is reported on the diagnostic
// channel and is not fatal: the interpreter comes up and imports fail later.
// An interpreter that cannot be initialized is reported, nothing is
// installed and the error is returned.
func Load(ctx context.Context, opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		return nil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validation.ValidateStruct(&cfg.names); err != nil {
		cfg.logger.ErrorContext(ctx, "Could not load interpreter", "error", err)
		return &domainerrors.LifecycleError{Operation: "load", Path: cfg.libraryPath, Err: err}
	}

	it, err := newInterpreter(ctx, cfg)
	if err != nil {
		cfg.logger.ErrorContext(ctx, "Could not load interpreter", "error", err)
		return &domainerrors.LifecycleError{Operation: "load", Path: cfg.libraryPath, Err: err}
	}

	instance = it
	cfg.logger.DebugContext(ctx, "interpreter loaded", "library", cfg.libraryPath, "finalize", cfg.finalize)
	return nil
}

// Unload tears the interpreter down. It is a no-op when nothing is loaded.
//
// Unload waits for the current lock holder. With WithFinalize(true) the guest
// exit handlers run and the VM is interrupted; otherwise the interpreter is
// dropped as is. Callers waiting on the lock then get ErrNotLoaded.
func Unload(ctx context.Context) error {
	it := current()
	if it == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if s, ok := ctx.Value(scopeKey{}).(*Scope); ok && s.holds(it) {
		return &domainerrors.LifecycleError{Operation: "unload", Err: errors.New("execution lock is held by the caller")}
	}

	it.gil.Lock()
	if it.closed {
		it.gil.Unlock()
		return nil
	}

	if it.final {
		s := &Scope{it: it}
		s.ctx = context.WithValue(ctx, scopeKey{}, s)
		it.holder.Store(s)
		it.active = s.ctx

		it.runExitHandlers(ctx, s)
		it.vm.Interrupt("interpreter unloaded")

		s.released.Store(true)
		it.holder.Store(nil)
		it.active = nil
	}

	it.closed = true
	it.lib = nil
	it.fault = nil
	it.gil.Unlock()

	mu.Lock()
	if instance == it {
		instance = nil
	}
	mu.Unlock()

	it.logger.DebugContext(ctx, "interpreter unloaded", "live_refs", it.refs.Live())
	return nil
}

// IsLoaded reports whether an interpreter is loaded.
func IsLoaded() bool {
	return current() != nil
}

// Modules lists the script library modules whose file path matches the
// doublestar pattern, as dotted module names. An empty pattern lists all.
func Modules(ctx context.Context, pattern string) ([]string, error) {
	s, err := Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Release()
	return s.it.lib.modules(pattern)
}

// LiveRefs returns the number of outstanding owned guest references, or 0
// when nothing is loaded.
func LiveRefs() int64 {
	it := current()
	if it == nil {
		return 0
	}
	return it.refs.Live()
}
