package host

import "github.com/dop251/goja"

// TextCaps describes how the VM exposes string contents.
type TextCaps struct {
	// CodeUnits is true when non-ASCII strings can be read as UTF-16 code units.
	CodeUnits bool
}

func probeTextCaps(vm *goja.Runtime) TextCaps {
	_, ok := vm.ToValue("é中").(goja.String)
	return TextCaps{CodeUnits: ok}
}
