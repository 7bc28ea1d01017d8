package hostfuncs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/ports"
)

// HostFuncBundle is a pre-configured set of related host functions and
// native guest modules. Bundles allow registering several at once.
type HostFuncBundle interface {
	// Handlers returns a map of handler names to ByteHandler functions.
	Handlers() map[string]ByteHandler
	// Modules returns a map of guest module names to their loaders.
	Modules() map[string]ModuleLoader
}

// staticBundle implements HostFuncBundle with a fixed set of entries.
type staticBundle struct {
	handlers map[string]ByteHandler
	modules  map[string]ModuleLoader
}

func (b *staticBundle) Handlers() map[string]ByteHandler {
	if b.handlers == nil {
		return map[string]ByteHandler{}
	}
	return b.handlers
}

func (b *staticBundle) Modules() map[string]ModuleLoader {
	if b.modules == nil {
		return map[string]ModuleLoader{}
	}
	return b.modules
}

// BridgeBundle returns the native guest modules the bridge calls into:
// the object bridge, the serializer and the frame formatter, registered
// under the given names.
func BridgeBundle(names entities.ModuleNames) HostFuncBundle {
	names = names.WithDefaults()
	return &staticBundle{
		modules: map[string]ModuleLoader{
			names.ObjectBridge: ObjectBridgeModule(),
			names.Serializer:   SerializerModule(),
			names.Formatter:    FormatterModule(),
		},
	}
}

// LogRequest is the request type of the "log" host function.
type LogRequest struct {
	Attrs   map[string]any `json:"attrs,omitempty"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
}

// LogResponse is the response type of the "log" host function.
type LogResponse struct {
	OK bool `json:"ok"`
}

// DiagnosticsBundle returns host functions that let scripts write to the
// host's diagnostic channel: log.
func DiagnosticsBundle(logger *slog.Logger) HostFuncBundle {
	if logger == nil {
		logger = slog.Default()
	}
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"log": NewJSONHandler(func(ctx context.Context, req LogRequest) LogResponse {
				args := make([]any, 0, 2*len(req.Attrs))
				for k, v := range req.Attrs {
					args = append(args, k, v)
				}
				logger.Log(ctx, parseLevel(req.Level), req.Message, args...)
				return LogResponse{OK: true}
			}),
		},
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ConfigRequest is the request type of the config_* host functions.
type ConfigRequest struct {
	Group string `json:"group,omitempty"`
	Key   string `json:"key,omitempty"`
	Text  string `json:"text,omitempty"`
}

// ConfigResponse is the response type of the config_* host functions.
type ConfigResponse struct {
	Error string   `json:"error,omitempty"`
	Text  string   `json:"text,omitempty"`
	Names []string `json:"names,omitempty"`
}

// ConfigBundle returns host functions giving scripts direct access to the
// host configuration store: config_groups, config_keys, config_read,
// config_write.
func ConfigBundle(store ports.ConfigStore) HostFuncBundle {
	return &staticBundle{
		handlers: map[string]ByteHandler{
			"config_groups": NewJSONHandler(func(_ context.Context, _ ConfigRequest) ConfigResponse {
				return ConfigResponse{Names: store.GroupList()}
			}),
			"config_keys": NewJSONHandler(func(_ context.Context, req ConfigRequest) ConfigResponse {
				if req.Group == "" {
					return ConfigResponse{Error: "group is required"}
				}
				return ConfigResponse{Names: store.Group(req.Group).KeyList()}
			}),
			"config_read": NewJSONHandler(func(_ context.Context, req ConfigRequest) ConfigResponse {
				if req.Group == "" || req.Key == "" {
					return ConfigResponse{Error: "group and key are required"}
				}
				return ConfigResponse{Text: store.Group(req.Group).ReadEntry(req.Key)}
			}),
			"config_write": NewJSONHandler(func(_ context.Context, req ConfigRequest) ConfigResponse {
				if req.Group == "" || req.Key == "" {
					return ConfigResponse{Error: "group and key are required"}
				}
				store.Group(req.Group).WriteEntry(req.Key, req.Text)
				return ConfigResponse{}
			}),
		},
	}
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []HostFuncBundle
}

func (b *compositeBundle) Handlers() map[string]ByteHandler {
	result := make(map[string]ByteHandler)
	for _, bundle := range b.bundles {
		for name, handler := range bundle.Handlers() {
			result[name] = handler
		}
	}
	return result
}

func (b *compositeBundle) Modules() map[string]ModuleLoader {
	result := make(map[string]ModuleLoader)
	for _, bundle := range b.bundles {
		for name, loader := range bundle.Modules() {
			result[name] = loader
		}
	}
	return result
}

// Bundles combines several bundles into one.
func Bundles(bundles ...HostFuncBundle) HostFuncBundle {
	return &compositeBundle{bundles: bundles}
}

// AllBundles returns a bundle containing all built-in host functions that
// need no host resources: log.
func AllBundles(logger *slog.Logger) HostFuncBundle {
	return Bundles(DiagnosticsBundle(logger))
}

// WithBundle registers all handlers and modules from a bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			if err := b.addHandler(name, handler); err != nil {
				b.errors = append(b.errors, err)
			}
		}
		for name, loader := range bundle.Modules() {
			if err := b.addModule(name, loader); err != nil {
				b.errors = append(b.errors, err)
			}
		}
	}
}

// WithHandler registers a typed host function with automatic JSON handling.
// The handler will be wrapped with NewJSONHandler for JSON serialization.
//
// Example usage:
//
//	WithHandler("custom_func", func(ctx context.Context, req MyRequest) MyResponse {
//	    return MyResponse{Result: req.Input}
//	})
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		handler := NewJSONHandler(fn)
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}
