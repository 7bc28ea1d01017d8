package bridge

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/errors"
)

// Coordinator handlers.
const (
	HandlerActions     = "moduleGetActions"
	HandlerConfigPages = "moduleGetConfigPages"
	HandlerHelp        = "moduleGetHelp"
)

// InvokeHandler imports module and calls handler from the coordinator
// namespace with the module as its only argument. The result is owned.
func (b *Bridge) InvokeHandler(module, handler string) (*Value, error) {
	m, err := b.Import(module)
	if err != nil {
		return nil, err
	}
	return b.Call(handler, b.names.Coordinator, b.tuple(m.Raw()))
}

// ModuleActions returns the owned result of moduleGetActions(module).
func (b *Bridge) ModuleActions(module string) (*Value, error) {
	return b.InvokeHandler(module, HandlerActions)
}

// ModuleConfigPages returns the owned result of moduleGetConfigPages(module).
func (b *Bridge) ModuleConfigPages(module string) (*Value, error) {
	return b.InvokeHandler(module, HandlerConfigPages)
}

// ModuleHelp returns the text of moduleGetHelp(module). A non-text result
// yields "".
func (b *Bridge) ModuleHelp(module string) (string, error) {
	res, err := b.InvokeHandler(module, HandlerHelp)
	if err != nil {
		return "", err
	}
	defer res.Release()
	return b.FromText(res), nil
}

// Actions decodes moduleGetActions(module). Each entry is an object
// {function, text, icon, shortcut, menu}; function may be a function or its
// name.
func (b *Bridge) Actions(module string) ([]entities.Action, error) {
	res, err := b.ModuleActions(module)
	if err != nil {
		return nil, err
	}
	defer res.Release()

	var actions []entities.Action
	err = b.decodeList(res.Raw(), "action list", func(obj *goja.Object) {
		actions = append(actions, entities.Action{
			Function: b.functionName(obj.Get("function")),
			Text:     b.textField(obj, "text"),
			Icon:     b.textField(obj, "icon"),
			Shortcut: b.textField(obj, "shortcut"),
			Menu:     b.textField(obj, "menu"),
		})
	})
	return actions, err
}

// ConfigPages decodes moduleGetConfigPages(module). Each entry is an object
// {function, name, fullName, icon}.
func (b *Bridge) ConfigPages(module string) ([]entities.ConfigPage, error) {
	res, err := b.ModuleConfigPages(module)
	if err != nil {
		return nil, err
	}
	defer res.Release()

	var pages []entities.ConfigPage
	err = b.decodeList(res.Raw(), "config page list", func(obj *goja.Object) {
		pages = append(pages, entities.ConfigPage{
			Function: b.functionName(obj.Get("function")),
			Name:     b.textField(obj, "name"),
			FullName: b.textField(obj, "fullName"),
			Icon:     b.textField(obj, "icon"),
		})
	})
	return pages, err
}

// decodeList calls fn for every object element of the guest array v.
func (b *Bridge) decodeList(v goja.Value, want string, fn func(*goja.Object)) error {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	items, ok := b.arrayItems(v)
	if !ok {
		b.scope.FetchFault()
		return &errors.CodecError{Want: want}
	}
	for i, item := range items {
		obj, isObj := item.(*goja.Object)
		if !isObj {
			return &errors.CodecError{Want: want, Err: fmt.Errorf("entry %d is %s, not an object", i, typeOf(item))}
		}
		if !b.guard(func() { fn(obj) }) {
			f, _ := b.scope.FetchFault()
			return &errors.CodecError{Want: want, Err: fmt.Errorf("entry %d: %s", i, f.Summary())}
		}
	}
	return nil
}

func (b *Bridge) textField(obj *goja.Object, name string) string {
	return b.fromText(obj.Get(name))
}

func (b *Bridge) functionName(v goja.Value) string {
	if obj, ok := v.(*goja.Object); ok {
		if _, isFn := goja.AssertFunction(obj); isFn {
			return b.fromText(obj.Get("name"))
		}
	}
	return b.fromText(v)
}
