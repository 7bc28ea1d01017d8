package bridge

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// Import returns the named module, borrowed. Native modules resolve by name;
// other names map to script library paths ("alpha.beta" is alpha/beta.js).
func (b *Bridge) Import(name string) (*Value, error) {
	m, err := b.scope.Require(name)
	if err != nil {
		b.scope.RaiseError(err)
		return nil, &errors.ResolutionError{Module: name, Err: b.capture("Could not import " + name)}
	}
	return b.borrowed(m), nil
}

// Namespace returns the namespace of an imported module, borrowed.
func (b *Bridge) Namespace(module *Value) (*Value, error) {
	raw := module.Raw()
	obj, ok := raw.(*goja.Object)
	if !ok {
		name := describe(raw)
		b.scope.Raisef(entities.FaultType, "%s has no namespace", name)
		return nil, &errors.ResolutionError{Module: name, Err: b.capture("Could not get dict " + name)}
	}
	return b.borrowed(obj), nil
}

// NamespaceOf imports the named module and returns its namespace, borrowed.
func (b *Bridge) NamespaceOf(name string) (*Value, error) {
	ns, ok := b.namespace(name)
	if !ok {
		return nil, &errors.ResolutionError{Module: name, Err: b.capture("Could not get dict " + name)}
	}
	return b.borrowed(ns), nil
}

// Get returns item from the namespace of module, borrowed. Present falsy
// values are returned as they are.
func (b *Bridge) Get(item, module string) (*Value, error) {
	var v goja.Value
	ns, ok := b.namespace(module)
	if ok {
		v, ok = b.item(ns, module, item)
	}
	if !ok {
		return nil, &errors.ResolutionError{
			Module: module,
			Item:   item,
			Err:    b.capture(fmt.Sprintf("Could not get item string %s.%s", module, item)),
		}
	}
	return b.borrowed(v), nil
}

// GetFrom returns item from dict, borrowed.
func (b *Bridge) GetFrom(item string, dict *Value) (*Value, error) {
	raw := dict.Raw()
	obj, ok := raw.(*goja.Object)
	var v goja.Value
	if !ok {
		b.scope.Raisef(entities.FaultType, "%s is not a dictionary", typeOf(raw))
	} else {
		v, ok = b.item(obj, "", item)
	}
	if !ok {
		return nil, &errors.ResolutionError{Module: describe(raw), Item: item, Err: b.capture("Could not get item string " + item)}
	}
	return b.borrowed(v), nil
}

// Set stores value under item in the namespace of module. A nil value
// stores undefined.
func (b *Bridge) Set(item string, value *Value, module string) error {
	ns, ok := b.namespace(module)
	if !ok {
		return &errors.ResolutionError{
			Module: module,
			Item:   item,
			Err:    b.capture(fmt.Sprintf("Could not set item string %s.%s", module, item)),
		}
	}
	if err := ns.Set(item, rawOf(value)); err != nil {
		b.scope.RaiseError(err)
		return b.capture(fmt.Sprintf("Could not set item string %s.%s", module, item))
	}
	return nil
}

// Delete removes item from the namespace of module. A missing item is an
// error.
func (b *Bridge) Delete(item, module string) error {
	desc := fmt.Sprintf("Could not delete item string %s.%s", module, item)

	ns, ok := b.namespace(module)
	if ok && !hasOwn(ns, item) {
		b.raiseMissing(module, item)
		ok = false
	}
	if !ok {
		return &errors.ResolutionError{Module: module, Item: item, Err: b.capture(desc)}
	}
	if err := ns.Delete(item); err != nil {
		b.scope.RaiseError(err)
		return b.capture(desc)
	}
	return nil
}

// namespace imports module and returns its exports object. On failure a
// fault is pending.
func (b *Bridge) namespace(module string) (*goja.Object, bool) {
	m, err := b.scope.Require(module)
	if err != nil {
		b.scope.RaiseError(err)
		return nil, false
	}
	obj, ok := m.(*goja.Object)
	if !ok {
		b.scope.Raisef(entities.FaultType, "module '%s' has no namespace", module)
		return nil, false
	}
	return obj, true
}

// item looks up an own property of ns. On failure a fault is pending.
func (b *Bridge) item(ns *goja.Object, module, item string) (goja.Value, bool) {
	if !hasOwn(ns, item) {
		b.raiseMissing(module, item)
		return nil, false
	}
	var v goja.Value
	if !b.guard(func() { v = ns.Get(item) }) {
		return nil, false
	}
	if v == nil {
		v = goja.Undefined()
	}
	return v, true
}

func (b *Bridge) raiseMissing(module, item string) {
	if module == "" {
		b.scope.Raisef(entities.FaultKey, "'%s'", item)
		return
	}
	b.scope.Raisef(entities.FaultKey, "'%s' not found in module '%s'", item, module)
}

func hasOwn(obj *goja.Object, key string) bool {
	for _, k := range obj.GetOwnPropertyNames() {
		if k == key {
			return true
		}
	}
	return false
}

// describe names a value for diagnostics.
func describe(v goja.Value) string {
	if isText(v) {
		return v.String()
	}
	return typeOf(v)
}
