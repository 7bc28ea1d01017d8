package bridge

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// failure names the step at which invoke stopped.
type failure int

const (
	failResolve failure = iota + 1
	failCallable
	failRun
)

// Call calls function from the namespace of module with the elements of
// args, the namespace bound as this, and returns the owned result.
//
// args must come from Tuple and is always consumed, whatever the outcome.
// Failures are captured with one of these descriptions:
//
//	Missing arguments for <module> <function>
//	Failed to resolve <module> <function>
//	Not callable <module>.<function>
//	No result from <module>.<function>
func (b *Bridge) Call(function, module string, args *Value) (*Value, error) {
	if args.Raw() == nil {
		b.scope.Raisef(entities.FaultType, "%s() missing argument tuple", function)
		return nil, &errors.CallError{
			Module:   module,
			Function: function,
			Reason:   "missing arguments",
			Err:      b.capture(fmt.Sprintf("Missing arguments for %s %s", module, function)),
		}
	}
	defer args.Release()

	argv, ok := b.arrayItems(args.Raw())
	if !ok {
		return nil, &errors.CallError{
			Module:   module,
			Function: function,
			Reason:   "invalid arguments",
			Err:      b.capture(fmt.Sprintf("Missing arguments for %s %s", module, function)),
		}
	}

	res, failed := b.invoke(function, module, argv)
	switch failed {
	case failResolve:
		return nil, &errors.ResolutionError{
			Module: module,
			Item:   function,
			Err:    b.capture(fmt.Sprintf("Failed to resolve %s %s", module, function)),
		}
	case failCallable:
		return nil, &errors.CallError{
			Module:   module,
			Function: function,
			Reason:   "not callable",
			Err:      b.capture(fmt.Sprintf("Not callable %s.%s", module, function)),
		}
	case failRun:
		return nil, b.capture(fmt.Sprintf("No result from %s.%s", module, function))
	}
	return b.owned(res), nil
}

// Invoke calls function from module with no arguments and discards the
// result.
func (b *Bridge) Invoke(function, module string) error {
	res, err := b.Call(function, module, b.Tuple())
	if err != nil {
		return err
	}
	res.Release()
	return nil
}

// invoke resolves and calls function. On failure a fault is pending and the
// failed step is returned.
func (b *Bridge) invoke(function, module string, argv []goja.Value) (goja.Value, failure) {
	ns, ok := b.namespace(module)
	if !ok {
		return nil, failResolve
	}
	fnVal, ok := b.item(ns, module, function)
	if !ok {
		return nil, failResolve
	}
	fn, ok := goja.AssertFunction(fnVal)
	if !ok {
		b.scope.Raisef(entities.FaultType, "'%s' object is not callable", typeOf(fnVal))
		return nil, failCallable
	}
	res, err := fn(ns, argv...)
	if err != nil {
		b.scope.RaiseError(err)
		return nil, failRun
	}
	if res == nil {
		res = goja.Undefined()
	}
	return res, 0
}
