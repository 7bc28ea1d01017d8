package hostfuncs

import (
	"math"

	"github.com/dop251/goja"
)

// HighestProtocol is the only serializer protocol understood: JSON text.
const HighestProtocol = 0

// SerializerModule turns guest values into text and back.
//
//	dumps(value, protocol) -> string   // RangeError for unknown protocols
//	loads(text) -> value
func SerializerModule() ModuleLoader {
	return func(_ ModuleEnv, vm *goja.Runtime, exports *goja.Object) {
		mustSet(exports, "HIGHEST_PROTOCOL", HighestProtocol)

		mustSet(exports, "dumps", func(call goja.FunctionCall) goja.Value {
			if p := call.Argument(1); !goja.IsUndefined(p) && p.ToInteger() != HighestProtocol {
				panic(throwError(vm, "RangeError", "unsupported pickle protocol: "+p.String()))
			}
			value := call.Argument(0)
			checkPicklable(vm, value, make(map[*goja.Object]bool))
			text, ok := stringifyJSON(vm, value)
			if !ok {
				panic(throwError(vm, "TypeError", "cannot pickle '"+typeOf(value)+"' object"))
			}
			return vm.ToValue(text)
		})

		mustSet(exports, "loads", func(call goja.FunctionCall) goja.Value {
			data := call.Argument(0)
			if goja.IsUndefined(data) || goja.IsNull(data) {
				panic(throwError(vm, "TypeError", "loads() argument must be a string"))
			}
			return parseJSON(vm, data.String())
		})
	}
}

// checkPicklable throws a TypeError for values JSON would silently turn into
// something else: non-finite numbers become null and objects with a toJSON
// method (Date) become whatever it returns. Cycles are left to JSON.stringify.
func checkPicklable(vm *goja.Runtime, v goja.Value, seen map[*goja.Object]bool) {
	if isNumber(v) {
		if f := v.ToFloat(); math.IsNaN(f) || math.IsInf(f, 0) {
			panic(throwError(vm, "TypeError", "cannot pickle non-finite number "+v.String()))
		}
		return
	}
	obj, ok := v.(*goja.Object)
	if !ok || seen[obj] {
		return
	}
	if _, ok := goja.AssertFunction(obj); ok {
		return
	}
	seen[obj] = true
	if _, ok := goja.AssertFunction(obj.Get("toJSON")); ok {
		panic(throwError(vm, "TypeError", "cannot pickle '"+obj.ClassName()+"' object"))
	}
	for _, key := range obj.Keys() {
		checkPicklable(vm, obj.Get(key), seen)
	}
}

func typeOf(v goja.Value) string {
	switch {
	case v == nil || goja.IsUndefined(v):
		return "undefined"
	case goja.IsNull(v):
		return "null"
	}
	if obj, ok := v.(*goja.Object); ok {
		if _, ok := goja.AssertFunction(obj); ok {
			return "function"
		}
		return obj.ClassName()
	}
	if _, ok := v.(*goja.Symbol); ok {
		return "symbol"
	}
	return v.ExportType().String()
}
