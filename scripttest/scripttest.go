// Package scripttest provides a test harness for script library modules.
package scripttest

import (
	"context"
	stdErrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/reglet-dev/pate/bridge"
	"github.com/reglet-dev/pate/domain/errors"
	"github.com/reglet-dev/pate/host"
)

// TestCase calls Function from Module with Args and hands the outcome to
// Validate.
type TestCase struct {
	Name     string
	Module   string
	Function string
	Args     []any
	Validate func(t *testing.T, r *Result)
}

// Result is the outcome of one call.
type Result struct {
	// Value is the exported return value, nil on failure.
	Value any
	// Err is the error returned by the call.
	Err error
	// Traceback is the record captured for a failed call.
	Traceback string
}

// Load writes files into a temporary script library and loads the runtime
// on it. The runtime is unloaded when the test ends.
func Load(t *testing.T, files map[string]string, opts ...host.Option) {
	t.Helper()

	dir := t.TempDir()
	for name, src := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("failed to create library directory: %v", err)
		}
		if err := os.WriteFile(p, []byte(src), 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	ctx := context.Background()
	if err := host.Unload(ctx); err != nil {
		t.Fatalf("failed to unload previous runtime: %v", err)
	}
	if err := host.Load(ctx, append([]host.Option{host.WithLibraryPath(dir)}, opts...)...); err != nil {
		t.Fatalf("failed to load runtime: %v", err)
	}
	t.Cleanup(func() {
		if err := host.Unload(ctx); err != nil {
			t.Errorf("failed to unload runtime: %v", err)
		}
	})
}

// RunScriptTests runs each case against the loaded runtime and checks that
// no owned guest value leaks.
func RunScriptTests(t *testing.T, tests []TestCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			before := host.LiveRefs()
			r := call(t, tc)
			if after := host.LiveRefs(); after != before {
				t.Errorf("leaked %d owned guest values", after-before)
			}
			if tc.Validate != nil {
				tc.Validate(t, r)
			}
		})
	}
}

func call(t *testing.T, tc TestCase) *Result {
	t.Helper()

	b, err := bridge.New(context.Background())
	if err != nil {
		t.Fatalf("failed to open bridge: %v", err)
	}
	defer b.Close()

	items := make([]*bridge.Value, len(tc.Args))
	for i, arg := range tc.Args {
		items[i] = b.ValueOf(arg)
	}
	args := b.Tuple(items...)
	for _, item := range items {
		item.Release()
	}

	res, err := b.Call(tc.Function, tc.Module, args)
	if err != nil {
		return &Result{Err: err, Traceback: errors.TracebackOf(err)}
	}
	defer res.Release()
	return &Result{Value: res.Export()}
}

// AssertSuccess asserts the call returned without error.
func AssertSuccess(t *testing.T, r *Result) {
	t.Helper()
	if r.Err != nil {
		t.Errorf("expected success, got %v\n%s", r.Err, r.Traceback)
	}
}

// AssertFault asserts the call failed with a guest fault of typeName.
func AssertFault(t *testing.T, r *Result, typeName string) {
	t.Helper()
	if r.Err == nil {
		t.Errorf("expected %s, got success with %v", typeName, r.Value)
		return
	}
	var fe *errors.FaultError
	if !stdErrors.As(r.Err, &fe) || !fe.Fault.Is(typeName) {
		t.Errorf("expected %s, got %v", typeName, r.Err)
	}
}

// AssertValue asserts the returned value. Numbers compare by value whatever
// their Go type.
func AssertValue(t *testing.T, r *Result, expected any) {
	t.Helper()
	if r.Err != nil {
		t.Errorf("expected %v, got error %v", expected, r.Err)
		return
	}

	if expectedNum, ok := toFloat64(expected); ok {
		if actualNum, ok := toFloat64(r.Value); ok {
			if expectedNum != actualNum {
				t.Errorf("expected %v, got %v", expected, r.Value)
			}
			return
		}
	}

	if !reflect.DeepEqual(r.Value, expected) {
		t.Errorf("expected %v (%T), got %v (%T)", expected, expected, r.Value, r.Value)
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
