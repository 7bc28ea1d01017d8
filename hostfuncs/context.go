package hostfuncs

import (
	"context"
)

// HostContext is the context a host function runs with. Besides the caller's
// context it knows which host function was invoked and how deeply host and
// guest calls are nested: a script calling a host function that opens a
// bridge and calls back into a script that calls a host function again runs
// the inner function at depth 2.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the host function being invoked.
	FunctionName() string

	// Depth returns 1 for the outermost host function call.
	Depth() int

	// SetValue stores a call-scoped value for middleware and handlers.
	SetValue(key, value any)

	// GetValue retrieves a value stored with SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContextKey struct{}

type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
	depth    int
}

// NewHostContext creates a HostContext for one invocation of funcName.
// The depth is one more than that of any HostContext ctx derives from.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	depth := 1
	if outer, ok := ctx.Value(hostContextKey{}).(*hostContext); ok {
		depth = outer.depth + 1
	}
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		depth:    depth,
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) Depth() int {
	return c.depth
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Value makes the innermost HostContext reachable through derived contexts.
func (c *hostContext) Value(key any) any {
	if key == (hostContextKey{}) {
		return c
	}
	return c.Context.Value(key)
}

// HostContextFrom returns the innermost HostContext carried by ctx, if any.
func HostContextFrom(ctx context.Context) (HostContext, bool) {
	hc, ok := ctx.Value(hostContextKey{}).(*hostContext)
	if !ok {
		return nil, false
	}
	return hc, true
}
