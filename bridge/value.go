package bridge

import (
	"strconv"
	"sync/atomic"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/host"
)

// Ownership says whether the holder of a Value must release it.
type Ownership int

const (
	// Borrowed values belong to someone else; Release does nothing.
	Borrowed Ownership = iota
	// Owned values count as a live reference until released.
	Owned
)

func (o Ownership) String() string {
	if o == Owned {
		return "owned"
	}
	return "borrowed"
}

// Value is a guest value handed to the host, tagged with its ownership.
type Value struct {
	raw      goja.Value
	refs     *host.Refs
	own      Ownership
	released atomic.Bool
}

func (b *Bridge) owned(v goja.Value) *Value {
	if v == nil {
		v = goja.Undefined()
	}
	b.refs.Inc()
	return &Value{raw: v, refs: b.refs, own: Owned}
}

func (b *Bridge) borrowed(v goja.Value) *Value {
	if v == nil {
		v = goja.Undefined()
	}
	return &Value{raw: v, refs: b.refs, own: Borrowed}
}

// Raw returns the underlying guest value, or nil once an owned value has
// been released.
func (v *Value) Raw() goja.Value {
	if v == nil || v.released.Load() {
		return nil
	}
	return v.raw
}

// Ownership returns the ownership tag.
func (v *Value) Ownership() Ownership {
	return v.own
}

// Release drops an owned reference. Further calls, and calls on borrowed
// values, do nothing.
func (v *Value) Release() {
	if v == nil || v.own != Owned {
		return
	}
	if v.released.Swap(true) {
		return
	}
	v.refs.Dec()
}

// Retain returns a new owned reference to the same guest value.
func (v *Value) Retain() *Value {
	raw := v.Raw()
	if raw == nil {
		return nil
	}
	v.refs.Inc()
	return &Value{raw: raw, refs: v.refs, own: Owned}
}

// Export converts the value to a plain Go value.
func (v *Value) Export() any {
	raw := v.Raw()
	if raw == nil {
		return nil
	}
	return raw.Export()
}

// IsNull reports whether the value is missing, undefined or null.
func (v *Value) IsNull() bool {
	raw := v.Raw()
	return raw == nil || goja.IsUndefined(raw) || goja.IsNull(raw)
}

func (v *Value) String() string {
	raw := v.Raw()
	if raw == nil {
		return "<released>"
	}
	return raw.String()
}

// rawOf maps a nil or released Value to undefined.
func rawOf(v *Value) goja.Value {
	if raw := v.Raw(); raw != nil {
		return raw
	}
	return goja.Undefined()
}

// ValueOf converts a Go value into an owned guest value.
func (b *Bridge) ValueOf(x any) *Value {
	return b.owned(b.vm.ToValue(x))
}

// Tuple builds an owned argument tuple from items. The items are not
// consumed.
func (b *Bridge) Tuple(items ...*Value) *Value {
	raw := make([]goja.Value, len(items))
	for i, item := range items {
		raw[i] = rawOf(item)
	}
	return b.tuple(raw...)
}

func (b *Bridge) tuple(raw ...goja.Value) *Value {
	items := make([]interface{}, len(raw))
	for i, r := range raw {
		items[i] = r
	}
	return b.owned(b.vm.NewArray(items...))
}

// NewDict returns an owned, empty guest dictionary.
func (b *Bridge) NewDict() *Value {
	return b.owned(b.vm.NewObject())
}

// NewList returns an owned guest list holding the given texts.
func (b *Bridge) NewList(texts ...string) *Value {
	items := make([]interface{}, len(texts))
	for i, s := range texts {
		items[i] = s
	}
	return b.owned(b.vm.NewArray(items...))
}

// arrayItems returns the elements of a guest array. On failure a fault is
// pending.
func (b *Bridge) arrayItems(v goja.Value) ([]goja.Value, bool) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Array" {
		b.scope.Raisef(entities.FaultType, "expected an array, got %s", typeOf(v))
		return nil, false
	}
	var items []goja.Value
	ok = b.guard(func() {
		n := int(obj.Get("length").ToInteger())
		items = make([]goja.Value, n)
		for i := 0; i < n; i++ {
			items[i] = obj.Get(strconv.Itoa(i))
		}
	})
	return items, ok
}
