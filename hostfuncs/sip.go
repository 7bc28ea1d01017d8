package hostfuncs

import (
	"reflect"

	"github.com/dop251/goja"
)

// ObjectBridgeModule binds host object addresses to guest proxies.
//
// wrapinstance(ptr, cls) returns a new object whose prototype is
// cls.prototype and which carries ptr in a hidden slot. unwrapinstance(proxy)
// returns that slot. Neither side manages the lifetime of the host object.
func ObjectBridgeModule() ModuleLoader {
	return func(_ ModuleEnv, vm *goja.Runtime, exports *goja.Object) {
		slot := goja.NewSymbol("sip.pointer")

		mustSet(exports, "wrapinstance", func(call goja.FunctionCall) goja.Value {
			ptr := call.Argument(0)
			if !isNumber(ptr) || ptr.ToInteger() < 0 {
				panic(throwError(vm, "TypeError", "wrapinstance() argument 1 must be an address"))
			}
			cls, ok := call.Argument(1).(*goja.Object)
			if !ok {
				panic(throwError(vm, "TypeError", "wrapinstance() argument 2 must be a class"))
			}
			if _, ok := goja.AssertConstructor(cls); !ok {
				panic(throwError(vm, "TypeError", "wrapinstance() argument 2 must be a class"))
			}
			proto, ok := cls.Get("prototype").(*goja.Object)
			if !ok {
				panic(throwError(vm, "TypeError", "wrapinstance() class has no prototype"))
			}

			proxy := vm.CreateObject(proto)
			if err := proxy.DefineDataPropertySymbol(slot, vm.ToValue(ptr.ToInteger()),
				goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
				panic(err)
			}
			return proxy
		})

		mustSet(exports, "unwrapinstance", func(call goja.FunctionCall) goja.Value {
			proxy, ok := call.Argument(0).(*goja.Object)
			if ok {
				if ptr := proxy.GetSymbol(slot); ptr != nil && !goja.IsUndefined(ptr) {
					return ptr
				}
			}
			panic(throwError(vm, "TypeError", "unwrapinstance() argument 1 must be a wrapped instance"))
		})

		mustSet(exports, "isdeleted", func(goja.FunctionCall) goja.Value {
			return vm.ToValue(false)
		})
	}
}

func isNumber(v goja.Value) bool {
	if v == nil {
		return false
	}
	t := v.ExportType()
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int64, reflect.Float64:
		return true
	}
	return false
}
