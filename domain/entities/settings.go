package entities

// Settings configures the runtime. It is usually read from a YAML file.
type Settings struct {
	// Library is the directory holding the script library.
	Library string `json:"library" yaml:"library" validate:"required" jsonschema:"description=Directory holding the script library"`

	// LogLevel is one of debug, info, warn or error.
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`

	// Modules overrides the well-known namespaces.
	Modules ModuleNames `json:"modules" yaml:"modules"`

	// Finalize runs guest exit handlers and interrupts the interpreter on unload.
	Finalize bool `json:"finalize,omitempty" yaml:"finalize,omitempty"`

	// Protocol is the serializer protocol used when exporting configuration.
	Protocol int `json:"protocol,omitempty" yaml:"protocol,omitempty" validate:"gte=0"`
}

// DefaultSettings returns settings with every optional field filled.
func DefaultSettings() Settings {
	return Settings{
		LogLevel: "info",
		Modules:  DefaultModuleNames(),
	}
}

// ApplyDefaults fills the optional fields that were left empty.
func (s *Settings) ApplyDefaults() {
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
	s.Modules = s.Modules.WithDefaults()
}
