package host

import (
	"context"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/hostfuncs"
)

const atexitModuleName = "atexit"

type exitHandler struct {
	fn   goja.Callable
	self goja.Value
	args []goja.Value
}

// atexitModule lets scripts register functions to run when the interpreter
// is finalized:
//
//	require("atexit").register(fn, ...args)
func (it *interpreter) atexitModule(_ hostfuncs.ModuleEnv, vm *goja.Runtime, exports *goja.Object) {
	register := func(call goja.FunctionCall) goja.Value {
		fnVal := call.Argument(0)
		fn, ok := goja.AssertFunction(fnVal)
		if !ok {
			panic(vm.NewTypeError("register() argument 1 must be callable"))
		}
		var args []goja.Value
		if len(call.Arguments) > 1 {
			args = append(args, call.Arguments[1:]...)
		}
		it.exits = append(it.exits, exitHandler{fn: fn, self: fnVal, args: args})
		return fnVal
	}
	unregister := func(call goja.FunctionCall) goja.Value {
		target := call.Argument(0)
		kept := it.exits[:0]
		for _, h := range it.exits {
			if !h.self.SameAs(target) {
				kept = append(kept, h)
			}
		}
		it.exits = kept
		return goja.Undefined()
	}
	if err := exports.Set("register", register); err != nil {
		panic(err)
	}
	if err := exports.Set("unregister", unregister); err != nil {
		panic(err)
	}
}

// runExitHandlers calls the registered exit handlers, last registered first.
// It must run with the lock held by s. Failures are reported and skipped.
func (it *interpreter) runExitHandlers(ctx context.Context, s *Scope) {
	for i := len(it.exits) - 1; i >= 0; i-- {
		h := it.exits[i]
		if _, err := h.fn(goja.Undefined(), h.args...); err != nil {
			f := FaultFromError(err)
			it.logger.ErrorContext(ctx, "exit handler failed", "error", f.Summary())
		}
		s.FetchFault()
	}
	it.exits = nil
}
