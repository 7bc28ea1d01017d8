package hostfuncs

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// FormatterModule renders stack frames for traceback records.
//
//	format_tb(frames) -> [string]
//
// Each frame is an object {file, line, column, name}. One line is returned
// per frame, in the order given.
func FormatterModule() ModuleLoader {
	return func(_ ModuleEnv, vm *goja.Runtime, exports *goja.Object) {
		mustSet(exports, "format_tb", func(call goja.FunctionCall) goja.Value {
			frames, ok := call.Argument(0).(*goja.Object)
			if !ok || frames.ClassName() != "Array" {
				panic(throwError(vm, "TypeError", "format_tb() argument must be an array of frames"))
			}

			n := int(frames.Get("length").ToInteger())
			lines := make([]interface{}, 0, n)
			for i := 0; i < n; i++ {
				frame, ok := frames.Get(fmt.Sprint(i)).(*goja.Object)
				if !ok {
					panic(throwError(vm, "TypeError", fmt.Sprintf("format_tb() frame %d is not an object", i)))
				}
				lines = append(lines, FormatFrame(
					stringField(frame, "file"),
					intField(frame, "line"),
					intField(frame, "column"),
					stringField(frame, "name"),
				))
			}
			return vm.NewArray(lines...)
		})
	}
}

// FormatFrame renders one frame line, newline terminated.
func FormatFrame(file string, line, column int, name string) string {
	if file == "" {
		file = "<unknown>"
	}
	if name == "" {
		name = "<module>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  File \"%s\", line %d", file, line)
	if column > 0 {
		fmt.Fprintf(&b, ", column %d", column)
	}
	fmt.Fprintf(&b, ", in %s\n", name)
	return b.String()
}

func stringField(obj *goja.Object, name string) string {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func intField(obj *goja.Object, name string) int {
	v := obj.Get(name)
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0
	}
	return int(v.ToInteger())
}
