// Package pate embeds a script runtime into a Go host.
//
// The host loads the runtime once, then works on it through bridges:
//
//	settings, err := pate.LoadSettings("pate.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := pate.Start(ctx, *settings); err != nil {
//	    return err
//	}
//	defer pate.Stop(ctx)
//
//	b, err := bridge.New(ctx)
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//	help, err := b.ModuleHelp("tools")
//
// Package host owns the runtime lifecycle and the execution lock; package
// bridge holds the operations available while the lock is held.
package pate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/reglet-dev/pate/application/validation"
	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/host"
	"github.com/reglet-dev/pate/infrastructure/parser"
	"github.com/reglet-dev/pate/log"
)

// Version of the module.
const Version = "0.1.0"

// ParseSettings parses and validates a YAML settings document. Optional
// fields are filled with their defaults.
func ParseSettings(data []byte) (*entities.Settings, error) {
	settings, err := parser.NewYamlSettingsParser().Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := validation.ValidateSettings(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadSettings reads and validates a YAML settings file.
func LoadSettings(path string) (*entities.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return ParseSettings(data)
}

// Options turns settings into host.Load options. Diagnostics go to w at the
// configured level; a nil w means standard error.
func Options(settings entities.Settings, w io.Writer) []host.Option {
	settings.ApplyDefaults()
	logger := log.New(log.WithWriter(w), log.WithLevel(log.ParseLevel(settings.LogLevel)))
	return []host.Option{
		host.WithLibraryPath(settings.Library),
		host.WithLogger(logger),
		host.WithNames(settings.Modules),
		host.WithFinalize(settings.Finalize),
		host.WithProtocol(settings.Protocol),
	}
}

// Start validates settings and loads the runtime. opts are applied after the
// options derived from settings and may override them. Like host.Load it
// does nothing when a runtime is already loaded.
func Start(ctx context.Context, settings entities.Settings, opts ...host.Option) error {
	if err := validation.ValidateSettings(&settings); err != nil {
		return err
	}
	return host.Load(ctx, append(Options(settings, nil), opts...)...)
}

// Stop unloads the runtime.
func Stop(ctx context.Context) error {
	return host.Unload(ctx)
}
