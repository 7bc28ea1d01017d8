package bridge

import (
	stdErrors "errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
	"github.com/reglet-dev/pate/domain/ports"
)

// entry is one key/value pair of a guest dictionary.
type entry struct {
	key   goja.Value
	value goja.Value
}

// ExportToConfig writes every group of dict into store. dict maps group
// names to dictionaries of serializable values; each value is stored as the
// text produced by the serializer module.
//
// Entries that cannot be exported are reported and skipped. The returned
// error joins one *errors.ConfigEntryError per skipped entry and is nil when
// nothing was skipped. Nothing already written is rolled back.
func (b *Bridge) ExportToConfig(store ports.ConfigStore, dict *Value) error {
	groups, ok := b.dictEntries(dict.Raw())
	if !ok {
		return b.entryError("export", "", "", "Configuration is not a dictionary")
	}

	var errs []error
	for _, g := range groups {
		if !isText(g.key) {
			b.scope.Raisef(entities.FaultType, "group name must be a string, not %s", typeOf(g.key))
			errs = append(errs, b.entryError("export", describe(g.key), "", "Configuration group name not a string"))
			continue
		}
		groupName := b.fromText(g.key)

		items, ok := b.dictEntries(g.value)
		if !ok {
			errs = append(errs, b.entryError("export", groupName, "",
				fmt.Sprintf("Configuration group %s top level key not a dictionary", groupName)))
			continue
		}

		group := store.Group(groupName)
		for _, it := range items {
			if !isText(it.key) {
				b.scope.Raisef(entities.FaultType, "item key must be a string, not %s", typeOf(it.key))
				errs = append(errs, b.entryError("export", groupName, describe(it.key),
					fmt.Sprintf("Configuration group %s itemKey not a string", groupName)))
				continue
			}
			key := b.fromText(it.key)

			pickled, failed := b.invoke("dumps", b.names.Serializer, []goja.Value{it.value, b.vm.ToValue(b.protocol)})
			if failed != 0 || !isText(pickled) {
				if failed == 0 {
					b.scope.Raisef(entities.FaultType, "dumps() returned %s", typeOf(pickled))
				}
				errs = append(errs, b.entryError("export", groupName, key,
					fmt.Sprintf("Cannot write %s %s", groupName, key)))
				continue
			}
			group.WriteEntry(key, b.fromText(pickled))
		}
	}
	return stdErrors.Join(errs...)
}

// ImportFromConfig replaces dict[group] with a fresh dictionary for every
// group of store and fills it with the deserialized entries. Entries that
// cannot be deserialized are reported and left out; the error joins one
// *errors.ConfigEntryError per such entry.
func (b *Bridge) ImportFromConfig(dict *Value, store ports.ConfigStore) error {
	target, ok := dict.Raw().(*goja.Object)
	if !ok || !isDict(target) {
		b.scope.Raisef(entities.FaultType, "expected a dictionary, got %s", typeOf(dict.Raw()))
		return b.entryError("import", "", "", "Configuration is not a dictionary")
	}

	var errs []error
	for _, groupName := range store.GroupList() {
		fresh := b.vm.NewObject()
		if !b.setItem(target, groupName, fresh) {
			errs = append(errs, b.entryError("import", groupName, "",
				fmt.Sprintf("Cannot set configuration group %s", groupName)))
			continue
		}

		group := store.Group(groupName)
		for _, key := range group.KeyList() {
			pickled := group.ReadEntry(key)
			value, failed := b.invoke("loads", b.names.Serializer, []goja.Value{b.vm.ToValue(pickled)})
			if failed != 0 {
				errs = append(errs, b.entryError("import", groupName, key,
					fmt.Sprintf("Cannot read %s %s %s", groupName, key, pickled)))
				continue
			}
			if err := fresh.Set(key, value); err != nil {
				b.scope.RaiseError(err)
				errs = append(errs, b.entryError("import", groupName, key,
					fmt.Sprintf("Cannot read %s %s %s", groupName, key, pickled)))
			}
		}
	}
	return stdErrors.Join(errs...)
}

// entryError captures the pending fault and reports the skipped entry.
func (b *Bridge) entryError(op, group, key, description string) error {
	err := &errors.ConfigEntryError{
		Operation: op,
		Group:     group,
		Key:       key,
		Err:       b.capture(description),
	}
	b.logger.Warn("configuration entry skipped", "operation", op, "group", group, "key", key)
	return err
}

// isDict reports whether obj is a plain object or a Map.
func isDict(obj *goja.Object) bool {
	switch obj.ClassName() {
	case "Object", "Map":
		_, isFn := goja.AssertFunction(obj)
		return !isFn
	}
	return false
}

// dictEntries lists the entries of a guest dictionary: the enumerable own
// properties of a plain object, or the pairs of a Map. On failure a fault is
// pending.
func (b *Bridge) dictEntries(v goja.Value) ([]entry, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || !isDict(obj) {
		b.scope.Raisef(entities.FaultType, "expected a dictionary, got %s", typeOf(v))
		return nil, false
	}

	if obj.ClassName() != "Map" {
		var out []entry
		ok := b.guard(func() {
			for _, k := range obj.Keys() {
				out = append(out, entry{key: b.vm.ToValue(k), value: obj.Get(k)})
			}
		})
		return out, ok
	}

	from, ok := goja.AssertFunction(b.vm.Get("Array").ToObject(b.vm).Get("from"))
	if !ok {
		b.scope.Raisef(entities.FaultType, "Array.from is not available")
		return nil, false
	}
	pairs, err := from(goja.Undefined(), obj)
	if err != nil {
		b.scope.RaiseError(err)
		return nil, false
	}
	items, ok := b.arrayItems(pairs)
	if !ok {
		return nil, false
	}
	out := make([]entry, 0, len(items))
	for _, item := range items {
		pair, ok := b.arrayItems(item)
		if !ok || len(pair) != 2 {
			if ok {
				b.scope.Raisef(entities.FaultType, "malformed map entry")
			}
			return nil, false
		}
		out = append(out, entry{key: pair[0], value: pair[1]})
	}
	return out, true
}

// setItem stores value under key in a plain object or a Map. On failure a
// fault is pending.
func (b *Bridge) setItem(obj *goja.Object, key string, value goja.Value) bool {
	if obj.ClassName() == "Map" {
		set, ok := goja.AssertFunction(obj.Get("set"))
		if !ok {
			b.scope.Raisef(entities.FaultType, "Map has no set method")
			return false
		}
		if _, err := set(obj, b.vm.ToValue(key), value); err != nil {
			b.scope.RaiseError(err)
			return false
		}
		return true
	}
	if err := obj.Set(key, value); err != nil {
		b.scope.RaiseError(err)
		return false
	}
	return true
}
