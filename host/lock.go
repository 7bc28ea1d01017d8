package host

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	domainerrors "github.com/reglet-dev/pate/domain/errors"
)

type scopeKey struct{}

// ErrNestedUnlock is returned by Unlocked on a nested scope.
var ErrNestedUnlock = errors.New("only the outermost scope can release the execution lock")

// Scope is a hold on the interpreter's execution lock. A Scope is created by
// Acquire and released exactly once; a nested Scope shares the lock of the
// outermost one and releases nothing.
type Scope struct {
	it       *interpreter
	parent   *Scope
	ctx      context.Context
	outerCtx context.Context // it.active before a nested scope replaced it
	released atomic.Bool
}

// Acquire blocks until the calling context holds the execution lock.
// When ctx already carries a held Scope of the loaded interpreter the
// returned Scope is nested and does not block.
func Acquire(ctx context.Context) (*Scope, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	it := current()
	if it == nil {
		return nil, domainerrors.ErrNotLoaded
	}

	if outer, ok := ctx.Value(scopeKey{}).(*Scope); ok && outer.holds(it) {
		s := &Scope{it: it, parent: outer, outerCtx: it.active}
		s.ctx = context.WithValue(ctx, scopeKey{}, s)
		it.active = s.ctx
		return s, nil
	}

	it.gil.Lock()
	if it.closed {
		it.gil.Unlock()
		return nil, domainerrors.ErrNotLoaded
	}
	s := &Scope{it: it}
	s.ctx = context.WithValue(ctx, scopeKey{}, s)
	it.holder.Store(s)
	it.active = s.ctx
	return s, nil
}

// holds reports whether s is live and its outermost scope holds the lock.
func (s *Scope) holds(it *interpreter) bool {
	return s.it == it && !s.released.Load() && it.holder.Load() == s.root()
}

func (s *Scope) root() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Release gives back what Acquire took. Calling it again does nothing.
func (s *Scope) Release() {
	if s == nil || s.released.Swap(true) {
		return
	}
	if s.parent != nil {
		if s.it.active == s.ctx {
			s.it.active = s.outerCtx
		}
		return
	}
	it := s.it
	it.active = nil
	it.holder.Store(nil)
	it.gil.Unlock()
}

// Released reports whether Release has been called.
func (s *Scope) Released() bool {
	return s.released.Load()
}

// Nested reports whether s shares the lock of an outer scope.
func (s *Scope) Nested() bool {
	return s.parent != nil
}

// Context returns a context carrying s. Acquire on it nests instead of
// blocking.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Unlocked releases the execution lock while fn runs and takes it back
// afterwards. Only the outermost scope may do this. If the interpreter was
// unloaded meanwhile the scope is dead and ErrNotLoaded is returned.
func (s *Scope) Unlocked(fn func()) error {
	if s.parent != nil {
		return ErrNestedUnlock
	}
	if s.released.Load() {
		return domainerrors.ErrNotLoaded
	}

	it := s.it
	active := it.active
	it.active = nil
	it.holder.Store(nil)
	it.gil.Unlock()

	fn()

	it.gil.Lock()
	if it.closed {
		s.released.Store(true)
		it.gil.Unlock()
		return domainerrors.ErrNotLoaded
	}
	it.holder.Store(s)
	it.active = active
	return nil
}

// VM returns the interpreter. Only use it while the scope is held.
func (s *Scope) VM() *goja.Runtime {
	return s.it.vm
}

// Require imports a module by dotted name.
func (s *Scope) Require(name string) (goja.Value, error) {
	return s.it.requireModule(name)
}

// IsNative reports whether name is served by a native module.
func (s *Scope) IsNative(name string) bool {
	return s.it.native[name]
}

// Names returns the configured well-known namespaces.
func (s *Scope) Names() entities.ModuleNames {
	return s.it.names
}

// TextCaps returns the text capabilities probed at load.
func (s *Scope) TextCaps() TextCaps {
	return s.it.caps
}

// Refs returns the live reference counter.
func (s *Scope) Refs() *Refs {
	return &s.it.refs
}

// Logger returns the diagnostic channel.
func (s *Scope) Logger() *slog.Logger {
	return s.it.logger
}

// Protocol returns the configured serializer protocol.
func (s *Scope) Protocol() int {
	return s.it.proto
}
