package parser

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/ports"
)

// YamlSettingsParser implements SettingsParser for YAML.
type YamlSettingsParser struct{}

// NewYamlSettingsParser creates a new YamlSettingsParser.
func NewYamlSettingsParser() ports.SettingsParser {
	return &YamlSettingsParser{}
}

// Parse unmarshals YAML bytes into a Settings struct. Unknown fields are
// rejected.
func (p *YamlSettingsParser) Parse(data []byte) (*entities.Settings, error) {
	var settings entities.Settings
	if len(data) == 0 {
		return &settings, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
