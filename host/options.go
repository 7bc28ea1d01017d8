package host

import (
	"io/fs"
	"log/slog"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/hostfuncs"
)

// Option defines a functional option for configuring Load.
type Option func(*config)

type config struct {
	libraryFS   fs.FS
	logger      *slog.Logger
	registry    *hostfuncs.HandlerRegistry
	libraryPath string
	names       entities.ModuleNames
	protocol    int
	finalize    bool
}

func defaultConfig() config {
	return config{
		logger:   slog.Default(),
		names:    entities.DefaultModuleNames(),
		protocol: hostfuncs.HighestProtocol,
	}
}

// WithLibraryPath sets the directory holding the script library.
func WithLibraryPath(path string) Option {
	return func(c *config) {
		c.libraryPath = path
	}
}

// WithLibraryFS serves the script library from fsys instead of a directory.
// It takes precedence over WithLibraryPath.
func WithLibraryFS(fsys fs.FS) Option {
	return func(c *config) {
		c.libraryFS = fsys
	}
}

// WithLogger sets the diagnostic channel. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHostFunctions exposes a host function registry to scripts through the
// "host" guest module. Native modules in the registry become requirable by
// their names.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *config) {
		e.registry = registry
	}
}

// WithFinalize makes Unload run the guest exit handlers and interrupt the
// interpreter. Off by default.
func WithFinalize(enabled bool) Option {
	return func(c *config) {
		c.finalize = enabled
	}
}

// WithNames overrides the well-known guest namespaces. Empty fields keep
// their defaults.
func WithNames(names entities.ModuleNames) Option {
	return func(c *config) {
		c.names = names.WithDefaults()
	}
}

// WithProtocol sets the serializer protocol used when exporting
// configuration. Defaults to hostfuncs.HighestProtocol.
func WithProtocol(protocol int) Option {
	return func(c *config) {
		c.protocol = protocol
	}
}
