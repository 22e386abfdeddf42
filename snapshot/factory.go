package snapshot

import "fmt"

// Backend represents the type of snapshot store implementation
type Backend string

const (
	// BoltBackend uses the bbolt implementation
	BoltBackend Backend = "bolt"
	// FileBackend uses the plain JSON file implementation
	FileBackend Backend = "file"
)

// StoreConfig holds configuration for creating snapshot store instances
type StoreConfig struct {
	// Type specifies which store implementation to use
	Type Backend `json:"type" yaml:"type"`

	// Path is the database or file path
	Path string `json:"path" yaml:"path"`
}

// Validate validates the store configuration
func (sc *StoreConfig) Validate() error {
	if sc.Type == "" {
		return fmt.Errorf("store type cannot be empty")
	}
	if sc.Path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	switch sc.Type {
	case BoltBackend, FileBackend:
		return nil
	default:
		return fmt.Errorf("unsupported store type: %s", sc.Type)
	}
}

// CreateStore creates a new snapshot store instance
func CreateStore(config *StoreConfig) (Store, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case BoltBackend:
		return NewBoltStore(config.Path)
	case FileBackend:
		return NewFileStore(config.Path)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
