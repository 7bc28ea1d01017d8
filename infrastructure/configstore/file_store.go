package configstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/pate/domain/entities"
	"github.com/reglet-dev/pate/domain/ports"
)

// fileStoreConfig holds configuration for the FileStore.
type fileStoreConfig struct {
	path     string      // Path to the configuration file
	dirPerm  os.FileMode // Permission for created directories
	filePerm os.FileMode // Permission for the configuration file
}

func defaultFileStoreConfig() fileStoreConfig {
	return fileStoreConfig{
		path:     filepath.Join(os.Getenv("HOME"), ".config", "pate", "config.yaml"),
		dirPerm:  0o755,
		filePerm: 0o600,
	}
}

// FileStoreOption configures a FileStore instance.
type FileStoreOption func(*fileStoreConfig)

// WithPath sets the path to the configuration file.
func WithPath(path string) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.path = path
	}
}

// WithFilePermissions sets the file permissions for the configuration file.
// Default is 0o600 (user-only).
func WithFilePermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.filePerm = perm
	}
}

// WithDirPermissions sets the permissions of created directories.
// Default is 0o755.
func WithDirPermissions(perm os.FileMode) FileStoreOption {
	return func(c *fileStoreConfig) {
		c.dirPerm = perm
	}
}

// FileStore is a MemoryStore backed by a YAML file:
//
//	general:
//	  x: "1"
//
// Writes stay in memory until Sync.
type FileStore struct {
	*MemoryStore
	config fileStoreConfig
}

// NewFileStore creates a FileStore and reads the file if it exists.
func NewFileStore(opts ...FileStoreOption) (*FileStore, error) {
	cfg := defaultFileStoreConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &FileStore{MemoryStore: NewMemoryStore(), config: cfg}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory configuration with the file contents.
// A missing file yields an empty configuration.
func (s *FileStore) Reload() error {
	data, err := os.ReadFile(s.config.path)
	if os.IsNotExist(err) {
		s.Replace(entities.ConfigTree{})
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config store: %w", err)
	}

	tree := entities.ConfigTree{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse config store: %w", err)
	}
	s.Replace(tree)
	return nil
}

// Sync writes the configuration to the file.
func (s *FileStore) Sync() error {
	data, err := yaml.Marshal(s.Tree())
	if err != nil {
		return fmt.Errorf("failed to marshal config store: %w", err)
	}

	dir := filepath.Dir(s.config.path)
	if err := os.MkdirAll(dir, s.config.dirPerm); err != nil {
		return fmt.Errorf("failed to create config store directory: %w", err)
	}

	if err := os.WriteFile(s.config.path, data, s.config.filePerm); err != nil {
		return fmt.Errorf("failed to write config store: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the backing file.
func (s *FileStore) ConfigPath() string {
	return s.config.path
}

var (
	_ ports.ConfigStore  = (*FileStore)(nil)
	_ ports.ConfigSyncer = (*FileStore)(nil)
)
