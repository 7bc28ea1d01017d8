package ports

import "github.com/reglet-dev/pate/domain/entities"

// SettingsParser parses raw bytes into runtime Settings.
type SettingsParser interface {
	// Parse unmarshals data into a Settings struct.
	Parse(data []byte) (*entities.Settings, error)
}
