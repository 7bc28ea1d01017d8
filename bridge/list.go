package bridge

import (
	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
)

// PrependText inserts text at the front of the guest array list.
func (b *Bridge) PrependText(list *Value, text string) error {
	raw := list.Raw()
	obj, ok := raw.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		b.scope.Raisef(entities.FaultType, "expected an array, got %s", typeOf(raw))
		return b.capture("Failed to prepend " + text)
	}

	unshift, ok := goja.AssertFunction(obj.Get("unshift"))
	if !ok {
		b.scope.Raisef(entities.FaultType, "array has no unshift method")
		return b.capture("Failed to prepend " + text)
	}
	if _, err := unshift(obj, b.vm.ToValue(text)); err != nil {
		b.scope.RaiseError(err)
		return b.capture("Failed to prepend " + text)
	}
	return nil
}
