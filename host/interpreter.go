package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"

	"github.com/reglet-dev/pate/application/validation"
	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/hostfuncs"
	"github.com/reglet-dev/pate/log"
)

// interpreter is the runtime handle. Everything but refs and holder is only
// touched while gil is held.
type interpreter struct {
	gil     sync.Mutex
	holder  atomic.Pointer[Scope]
	refs    Refs
	vm      *goja.Runtime
	require *require.RequireModule
	lib     *library
	native  map[string]bool
	logger  *slog.Logger
	base    context.Context
	active  context.Context
	fault   *entities.Fault
	exits   []exitHandler
	names   entities.ModuleNames
	caps    TextCaps
	proto   int
	closed  bool
	final   bool
}

func newInterpreter(ctx context.Context, cfg config) (*interpreter, error) {
	it := &interpreter{
		logger: cfg.logger,
		names:  cfg.names,
		final:  cfg.finalize,
		proto:  cfg.protocol,
		base:   context.WithoutCancel(ctx),
	}

	lib, err := openLibrary(cfg.libraryPath, cfg.libraryFS)
	if err != nil {
		it.logger.ErrorContext(ctx, "Could not load "+cfg.libraryPath, "error", err)
	}
	it.lib = lib

	hostRegistry := cfg.registry
	if hostRegistry == nil {
		if hostRegistry, err = hostfuncs.NewRegistry(); err != nil {
			return nil, fmt.Errorf("failed to create default registry: %w", err)
		}
	}

	modules, err := hostfuncs.NewRegistry(
		hostfuncs.WithBundle(hostfuncs.BridgeBundle(cfg.names)),
		hostfuncs.WithModule(hostfuncs.HostModuleName, hostfuncs.HostModule(hostRegistry)),
		hostfuncs.WithModule(atexitModuleName, it.atexitModule),
		hostfuncs.WithRegistry(hostRegistry),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register native modules: %w", err)
	}
	if _, clash := modules.Module(console.ModuleName); clash {
		return nil, fmt.Errorf("failed to register native modules: duplicate module name: %q", console.ModuleName)
	}

	it.vm = goja.New()
	// Bare guest names such as require("pate") resolve against the library root.
	reg := require.NewRegistry(require.WithLoader(it.lib.load), require.WithGlobalFolders("/"))

	it.native = map[string]bool{console.ModuleName: true}
	for _, name := range modules.ModuleNames() {
		loader, _ := modules.Module(name)
		reg.RegisterNativeModule(name, it.nativeModule(loader))
		it.native[name] = true
	}
	reg.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(log.NewConsolePrinter(it.logger)))

	it.require = reg.Enable(it.vm)
	console.Enable(it.vm)
	it.caps = probeTextCaps(it.vm)

	return it, nil
}

// nativeModule adapts a hostfuncs loader to the require registry.
func (it *interpreter) nativeModule(loader hostfuncs.ModuleLoader) require.ModuleLoader {
	return func(vm *goja.Runtime, module *goja.Object) {
		exports, ok := module.Get("exports").(*goja.Object)
		if !ok {
			exports = vm.NewObject()
			if err := module.Set("exports", exports); err != nil {
				panic(err)
			}
		}
		loader(it, vm, exports)
	}
}

// Context implements hostfuncs.ModuleEnv: the context of the innermost live
// scope, or the load context when nothing holds the lock.
func (it *interpreter) Context() context.Context {
	if it.active != nil {
		return it.active
	}
	return it.base
}

// Logger implements hostfuncs.ModuleEnv.
func (it *interpreter) Logger() *slog.Logger {
	return it.logger
}

// requireModule imports a module by name: native modules directly, library
// modules through their dotted path.
func (it *interpreter) requireModule(name string) (goja.Value, error) {
	if it.native[name] {
		return it.require.Require(name)
	}
	if !validation.IsModuleName(name) {
		return nil, &moduleError{name: name, invalid: true}
	}
	v, err := it.require.Require(modulePath(name))
	if err != nil {
		return nil, &moduleError{name: name, err: err}
	}
	return v, nil
}
