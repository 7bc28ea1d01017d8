package hostfuncs

import (
	"context"
	"log/slog"
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	ctx context.Context
}

func (e testEnv) Context() context.Context { return e.ctx }
func (e testEnv) Logger() *slog.Logger     { return slog.Default() }

// installModule loads a native module into a bare VM under a global name.
func installModule(t *testing.T, vm *goja.Runtime, name string, loader ModuleLoader) {
	t.Helper()
	exports := vm.NewObject()
	loader(testEnv{ctx: context.Background()}, vm, exports)
	require.NoError(t, vm.Set(name, exports))
}

func run(t *testing.T, vm *goja.Runtime, src string) goja.Value {
	t.Helper()
	v, err := vm.RunString(src)
	require.NoError(t, err)
	return v
}

func runErr(t *testing.T, vm *goja.Runtime, src string) *goja.Exception {
	t.Helper()
	_, err := vm.RunString(src)
	require.Error(t, err)
	exc, ok := err.(*goja.Exception)
	require.True(t, ok, "want *goja.Exception, got %T", err)
	return exc
}

func errorName(exc *goja.Exception) string {
	obj, ok := exc.Value().(*goja.Object)
	if !ok {
		return ""
	}
	return obj.Get("name").String()
}

func TestObjectBridgeModule(t *testing.T) {
	vm := goja.New()
	installModule(t, vm, "sip", ObjectBridgeModule())

	run(t, vm, `class Widget { title() { return "widget"; } }`)

	assert.Equal(t, int64(4096), run(t, vm, `sip.unwrapinstance(sip.wrapinstance(4096, Widget))`).ToInteger())
	assert.True(t, run(t, vm, `sip.wrapinstance(1, Widget) instanceof Widget`).ToBoolean())
	assert.Equal(t, "widget", run(t, vm, `sip.wrapinstance(1, Widget).title()`).String())

	// the slot is hidden from enumeration
	assert.Equal(t, int64(0), run(t, vm, `Object.keys(sip.wrapinstance(1, Widget)).length`).ToInteger())

	tests := []struct {
		name string
		src  string
	}{
		{"bad pointer", `sip.wrapinstance("x", Widget)`},
		{"negative pointer", `sip.wrapinstance(-1, Widget)`},
		{"not a class", `sip.wrapinstance(1, {})`},
		{"missing class", `sip.wrapinstance(1)`},
		{"plain object", `sip.unwrapinstance({})`},
		{"primitive", `sip.unwrapinstance(3)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, "TypeError", errorName(runErr(t, vm, tt.src)))
		})
	}
}

func TestSerializerModule(t *testing.T) {
	vm := goja.New()
	installModule(t, vm, "pickle", SerializerModule())

	assert.Equal(t, `{"x":1}`, run(t, vm, `pickle.dumps({x: 1}, 0)`).String())
	assert.Equal(t, `"text"`, run(t, vm, `pickle.dumps("text")`).String())
	assert.Equal(t, int64(0), run(t, vm, `pickle.HIGHEST_PROTOCOL`).ToInteger())
	assert.Equal(t, int64(3), run(t, vm, `pickle.loads(pickle.dumps({a: [1, 2, 3]}, 0)).a.length`).ToInteger())

	assert.Equal(t, "RangeError", errorName(runErr(t, vm, `pickle.dumps({}, 2)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.dumps(function () {}, 0)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.dumps(undefined, 0)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `var o = {}; o.self = o; pickle.dumps(o, 0)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.dumps(NaN, 0)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.dumps([1, Infinity], 0)`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.dumps({when: new Date(0)}, 0)`)))
	assert.Equal(t, `{"a":[1,2],"b":{"c":null}}`, run(t, vm, `var s = {c: null}; pickle.dumps({a: [1, 2], b: s}, 0)`).String())
	assert.Equal(t, "SyntaxError", errorName(runErr(t, vm, `pickle.loads("{not json")`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `pickle.loads(null)`)))
}

func TestFormatterModule(t *testing.T) {
	vm := goja.New()
	installModule(t, vm, "traceback", FormatterModule())

	v := run(t, vm, `traceback.format_tb([
		{file: "pate.js", line: 3, column: 5, name: "run"},
		{file: "", line: 0, column: 0, name: ""},
	]).join("")`)
	assert.Equal(t,
		"  File \"pate.js\", line 3, column 5, in run\n  File \"<unknown>\", line 0, in <module>\n",
		v.String())

	assert.Equal(t, int64(0), run(t, vm, `traceback.format_tb([]).length`).ToInteger())
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `traceback.format_tb("nope")`)))
	assert.Equal(t, "TypeError", errorName(runErr(t, vm, `traceback.format_tb([1])`)))
}

func TestHostModule(t *testing.T) {
	var seen HostContext
	reg, err := NewRegistry(
		WithMiddleware(PanicRecoveryMiddleware()),
		WithHandler("double", func(ctx context.Context, req map[string]int) map[string]int {
			seen, _ = HostContextFrom(ctx)
			return map[string]int{"value": req["value"] * 2}
		}),
		WithByteHandler("explode", func(ctx context.Context, payload []byte) ([]byte, error) {
			panic("kaboom")
		}),
	)
	require.NoError(t, err)

	vm := goja.New()
	installModule(t, vm, "host", HostModule(reg))

	assert.Equal(t, int64(42), run(t, vm, `host.call("double", {value: 21}).value`).ToInteger())
	require.NotNil(t, seen)
	assert.Equal(t, "double", seen.FunctionName())

	assert.True(t, run(t, vm, `host.has("double")`).ToBoolean())
	assert.False(t, run(t, vm, `host.has("nope")`).ToBoolean())
	assert.Equal(t, "double,explode", run(t, vm, `host.names().join(",")`).String())

	notFound := runErr(t, vm, `host.call("nope", {})`)
	assert.Equal(t, "ReferenceError", errorName(notFound))
	assert.Contains(t, notFound.Error(), "host.nope: unknown host function: nope")

	exploded := runErr(t, vm, `host.call("explode", {})`)
	assert.Equal(t, "Error", errorName(exploded))
	assert.Contains(t, exploded.Error(), "panic: kaboom")
}

func TestFormatFrame(t *testing.T) {
	assert.Equal(t, "  File \"a.js\", line 1, column 2, in f\n", FormatFrame("a.js", 1, 2, "f"))
	assert.Equal(t, "  File \"a.js\", line 1, in <module>\n", FormatFrame("a.js", 1, 0, ""))
}
