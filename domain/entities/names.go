package entities

// ModuleNames are the well-known guest namespaces the bridge relies on.
type ModuleNames struct {
	// Engine is the namespace holding the host's own script entry points.
	Engine string `json:"engine" yaml:"engine" validate:"required,module_name" jsonschema:"default=pate"`

	// Coordinator holds moduleGetActions, moduleGetConfigPages and moduleGetHelp.
	Coordinator string `json:"coordinator" yaml:"coordinator" validate:"required,module_name" jsonschema:"default=kate"`

	// ObjectBridge provides wrapinstance and unwrapinstance.
	ObjectBridge string `json:"object_bridge" yaml:"object_bridge" validate:"required,module_name" jsonschema:"default=sip"`

	// Serializer provides dumps and loads.
	Serializer string `json:"serializer" yaml:"serializer" validate:"required,module_name" jsonschema:"default=pickle"`

	// Formatter provides format_tb.
	Formatter string `json:"formatter" yaml:"formatter" validate:"required,module_name" jsonschema:"default=traceback"`
}

// DefaultModuleNames returns the namespaces used when nothing is configured.
func DefaultModuleNames() ModuleNames {
	return ModuleNames{
		Engine:       "pate",
		Coordinator:  "kate",
		ObjectBridge: "sip",
		Serializer:   "pickle",
		Formatter:    "traceback",
	}
}

// WithDefaults fills every empty name from DefaultModuleNames.
func (n ModuleNames) WithDefaults() ModuleNames {
	d := DefaultModuleNames()
	if n.Engine == "" {
		n.Engine = d.Engine
	}
	if n.Coordinator == "" {
		n.Coordinator = d.Coordinator
	}
	if n.ObjectBridge == "" {
		n.ObjectBridge = d.ObjectBridge
	}
	if n.Serializer == "" {
		n.Serializer = d.Serializer
	}
	if n.Formatter == "" {
		n.Formatter = d.Formatter
	}
	return n
}
