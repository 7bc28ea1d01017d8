package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// HandlerRegistry is an immutable collection of named host functions and
// native guest modules. Once created via NewRegistry, entries cannot be added
// or removed, so lookups during execution need no locking.
type HandlerRegistry struct {
	handlers   map[string]ByteHandler
	modules    map[string]ModuleLoader
	names      []string // sorted for consistent iteration
	middleware []Middleware
}

// registryBuilder accumulates configuration during registry construction.
type registryBuilder struct {
	handlers   map[string]ByteHandler
	modules    map[string]ModuleLoader
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable HandlerRegistry with the given options.
// Returns an error if any handler or module name is registered twice.
//
// Example usage:
//
//	registry, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithBundle(BridgeBundle(entities.DefaultModuleNames())),
//	    WithHandler("custom", customHandler),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{
		handlers: make(map[string]ByteHandler),
		modules:  make(map[string]ModuleLoader),
	}

	for _, opt := range opts {
		opt(b)
	}

	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.handlers))
	for name := range b.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	// Apply middleware chain to all handlers (FIFO order)
	wrappedHandlers := make(map[string]ByteHandler, len(b.handlers))
	for name, handler := range b.handlers {
		wrapped := handler
		for i := len(b.middleware) - 1; i >= 0; i-- {
			wrapped = b.middleware[i](wrapped)
		}
		wrappedHandlers[name] = wrapped
	}

	return &HandlerRegistry{
		handlers:   wrappedHandlers,
		modules:    b.modules,
		names:      names,
		middleware: b.middleware,
	}, nil
}

// Invoke dispatches a host function call by name.
// Returns the JSON response bytes, or an ErrorResponse JSON if the handler is not found.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}

	return handler(NewHostContext(ctx, name), payload)
}

// Has returns true if a handler with the given name is registered.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns a sorted list of all registered handler names.
func (r *HandlerRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

// Module returns the native guest module registered under name.
func (r *HandlerRegistry) Module(name string) (ModuleLoader, bool) {
	loader, ok := r.modules[name]
	return loader, ok
}

// ModuleNames returns a sorted list of all registered native module names.
func (r *HandlerRegistry) ModuleNames() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// addHandler registers a handler with the given name.
// Returns an error if the name is already registered.
func (b *registryBuilder) addHandler(name string, handler ByteHandler) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}

func (b *registryBuilder) addModule(name string, loader ModuleLoader) error {
	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}
	if loader == nil {
		return fmt.Errorf("module %q has no loader", name)
	}
	if _, exists := b.modules[name]; exists {
		return fmt.Errorf("duplicate module name: %q", name)
	}
	b.modules[name] = loader
	return nil
}

// WithByteHandler registers a raw ByteHandler with the given name.
// Use WithHandler for type-safe registration with automatic JSON handling.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithModule registers a native guest module that scripts can require by name.
func WithModule(name string, loader ModuleLoader) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addModule(name, loader); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}

// WithRegistry copies every handler and module of an existing registry.
// Handlers keep the middleware they were built with.
func WithRegistry(r *HandlerRegistry) RegistryOption {
	return func(b *registryBuilder) {
		if r == nil {
			return
		}
		for name, handler := range r.handlers {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
		for name, loader := range r.modules {
			if err := b.addModule(name, loader); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}
