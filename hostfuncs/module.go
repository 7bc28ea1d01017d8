package hostfuncs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/dop251/goja"
)

// ModuleEnv is the view of the running interpreter handed to native guest
// modules. Context returns the context of whoever currently holds the
// execution lock, so host code called back from a script can open nested
// bridges on it instead of blocking on the lock.
type ModuleEnv interface {
	Context() context.Context
	Logger() *slog.Logger
}

// ModuleLoader populates the exports object of a native guest module.
// It runs the first time a script requires the module.
type ModuleLoader func(env ModuleEnv, vm *goja.Runtime, exports *goja.Object)

// HostModuleName is the guest module through which scripts reach host functions.
const HostModuleName = "host"

// HostModule exposes the handlers of r to scripts:
//
//	const host = require("host");
//	host.has("log");        // true
//	host.names();           // ["log", ...]
//	host.call("log", {level: "info", message: "hi"});
//
// Payloads and responses cross the boundary as JSON. An ErrorResponse is
// rethrown in the script rather than returned, and so is a handler panic,
// whether or not the registry carries PanicRecoveryMiddleware.
func HostModule(r *HandlerRegistry) ModuleLoader {
	return func(env ModuleEnv, vm *goja.Runtime, exports *goja.Object) {
		mustSet(exports, "call", func(call goja.FunctionCall) goja.Value {
			name := call.Argument(0).String()
			payload, err := json.Marshal(call.Argument(1).Export())
			if err != nil {
				panic(throwError(vm, "TypeError", "host.call payload: "+err.Error()))
			}
			resp, err := invokeRecovered(env.Context(), r, name, payload)
			if err != nil {
				panic(throwError(vm, "Error", "host."+name+": "+err.Error()))
			}
			if len(resp) == 0 {
				return goja.Null()
			}
			if e, ok := ParseErrorResponse(resp); ok {
				panic(throwError(vm, e.GuestType(), "host."+name+": "+e.Message))
			}
			return parseJSON(vm, string(resp))
		})
		mustSet(exports, "has", func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(r.Has(call.Argument(0).String()))
		})
		mustSet(exports, "names", func(goja.FunctionCall) goja.Value {
			names := r.Names()
			items := make([]interface{}, len(names))
			for i, n := range names {
				items[i] = n
			}
			return vm.NewArray(items...)
		})
	}
}

// invokeRecovered turns a panicking handler into an internal ErrorResponse.
// A Go panic must not unwind through the guest runtime into the host.
func invokeRecovered(ctx context.Context, r *HandlerRegistry, name string, payload []byte) (resp []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp, err = NewPanicError(p).ToJSON(), nil
		}
	}()
	return r.Invoke(ctx, name, payload)
}

func mustSet(obj *goja.Object, name string, value interface{}) {
	if err := obj.Set(name, value); err != nil {
		panic(err)
	}
}

// throwError builds a guest exception of the named built-in error type.
// Panicking with the result throws it inside the guest.
func throwError(vm *goja.Runtime, ctorName, message string) *goja.Object {
	ctor, ok := goja.AssertConstructor(vm.Get(ctorName))
	if !ok {
		return vm.NewGoError(errorString(message))
	}
	obj, err := ctor(nil, vm.ToValue(message))
	if err != nil {
		return vm.NewGoError(errorString(message))
	}
	return obj
}

type errorString string

func (e errorString) Error() string { return string(e) }

// parseJSON runs the guest's JSON.parse so results are plain guest objects
// rather than wrapped Go maps.
func parseJSON(vm *goja.Runtime, text string) goja.Value {
	parse, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))
	if !ok {
		panic(throwError(vm, "TypeError", "JSON.parse is not available"))
	}
	v, err := parse(goja.Undefined(), vm.ToValue(text))
	if err != nil {
		panic(err)
	}
	return v
}

// stringifyJSON runs the guest's JSON.stringify. The second result is false
// when the value has no JSON representation.
func stringifyJSON(vm *goja.Runtime, v goja.Value) (string, bool) {
	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		panic(throwError(vm, "TypeError", "JSON.stringify is not available"))
	}
	out, err := stringify(goja.Undefined(), v)
	if err != nil {
		panic(err)
	}
	if out == nil || goja.IsUndefined(out) {
		return "", false
	}
	return out.String(), true
}
