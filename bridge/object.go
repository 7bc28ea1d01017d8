package bridge

import (
	"reflect"
	"strings"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// Unwrap returns the host address held by a proxy made by Wrap or by
// sip.wrapinstance. The proxy is borrowed.
func (b *Bridge) Unwrap(proxy *Value) (uintptr, error) {
	res, failed := b.invoke("unwrapinstance", b.names.ObjectBridge, []goja.Value{rawOf(proxy)})
	if failed == 0 && (!isNumber(res) || res.ToInteger() < 0) {
		b.scope.Raisef(entities.FaultType, "unwrapinstance() returned %s, not an address", describe(res))
		failed = failRun
	}
	if failed != 0 {
		return 0, &errors.CodecError{Want: "wrapped instance", Err: b.capture("Could not unwrap instance")}
	}
	return uintptr(res.ToInteger()), nil
}

func isNumber(v goja.Value) bool {
	if v == nil {
		return false
	}
	t := v.ExportType()
	if t == nil {
		return false
	}
	return t.Kind() == reflect.Int64 || t.Kind() == reflect.Float64
}

// Wrap returns an owned guest proxy of class className for the host object
// at ptr. className is fully qualified: "alpha.beta.Widget" is the class
// Widget in the namespace of module alpha.beta. The proxy does not keep the
// host object alive.
func (b *Bridge) Wrap(ptr uintptr, className string) (*Value, error) {
	i := strings.LastIndexByte(className, '.')
	if i <= 0 || i == len(className)-1 {
		b.scope.Raisef(entities.FaultType, "'%s' is not a qualified class name", className)
		return nil, &errors.ResolutionError{Module: className, Err: b.capture("Could not resolve class " + className)}
	}
	module, class := className[:i], className[i+1:]

	var cls goja.Value
	ns, ok := b.namespace(module)
	if ok {
		cls, ok = b.item(ns, module, class)
	}
	if !ok {
		return nil, &errors.ResolutionError{
			Module: module,
			Item:   class,
			Err:    b.capture("Could not resolve class " + className),
		}
	}

	res, failed := b.invoke("wrapinstance", b.names.ObjectBridge, []goja.Value{b.vm.ToValue(int64(ptr)), cls})
	if failed != 0 {
		return nil, &errors.CodecError{Want: className, Err: b.capture("Could not wrap instance of " + className)}
	}
	return b.owned(res), nil
}
