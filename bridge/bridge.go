// Package bridge is the host's working surface on the embedded interpreter.
//
// A Bridge holds the execution lock for its lifetime. Through it the host
// imports modules, reads and writes their namespaces, calls functions,
// converts text, wraps native objects and synchronizes configuration. Every
// failing operation turns the pending guest fault into a traceback record,
// logs it and returns it inside a typed error.
//
//	b, err := bridge.New(ctx)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	res, err := b.Call("run", "pate", b.Tuple(b.ToText("hello")))
package bridge

import (
	"context"
	"log/slog"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/host"
)

// Bridge is a held execution lock plus the operations that need it.
// A Bridge must not be shared between goroutines.
type Bridge struct {
	scope     *host.Scope
	vm        *goja.Runtime
	refs      *host.Refs
	logger    *slog.Logger
	codec     textCodec
	names     entities.ModuleNames
	traceback string
	protocol  int
}

// New acquires the execution lock and returns a Bridge holding it. A ctx
// obtained from another Bridge's Context yields a nested Bridge that does not
// block.
func New(ctx context.Context) (*Bridge, error) {
	scope, err := host.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &Bridge{
		scope:    scope,
		vm:       scope.VM(),
		refs:     scope.Refs(),
		logger:   scope.Logger(),
		codec:    newTextCodec(scope.TextCaps()),
		names:    scope.Names(),
		protocol: scope.Protocol(),
	}, nil
}

// Close releases the execution lock. Values obtained from the Bridge stay
// valid handles but must only be used under another Bridge.
func (b *Bridge) Close() {
	b.scope.Release()
}

// Context returns a context carrying this Bridge's hold on the lock.
func (b *Bridge) Context() context.Context {
	return b.scope.Context()
}

// Unlocked releases the lock while fn runs. See host.Scope.Unlocked.
func (b *Bridge) Unlocked(fn func()) error {
	return b.scope.Unlocked(fn)
}

// Names returns the well-known namespaces in use.
func (b *Bridge) Names() entities.ModuleNames {
	return b.names
}

// LastTraceback returns the record built by the most recent capture, or ""
// when that capture found no pending fault.
func (b *Bridge) LastTraceback() string {
	return b.traceback
}

// FaultPending reports whether a guest fault is waiting to be captured.
func (b *Bridge) FaultPending() bool {
	return b.scope.FaultPending()
}

// guard runs fn, which may throw guest exceptions from property access or
// conversions, and turns a thrown exception into the pending fault.
func (b *Bridge) guard(fn func()) bool {
	if exc := b.vm.Try(fn); exc != nil {
		b.scope.RaiseError(exc)
		return false
	}
	return true
}
