package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"ledgerd/jsonx"
)

var (
	bucketLedger = []byte("ledger")
	keyState     = []byte("state")
)

// BoltStore persists the snapshot blob in a single-bucket bbolt database.
type BoltStore struct {
	path string
	db   *bolt.DB
}

// NewBoltStore opens (or creates) a bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	db, err := bolt.Open(filepath.Clean(path), 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLedger)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create ledger bucket: %w", err)
	}

	return &BoltStore{path: path, db: db}, nil
}

func (s *BoltStore) Load() (*State, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(bucketLedger).Get(keyState)
		if val == nil {
			return ErrNotFound
		}
		raw = append(raw, val...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var state State
	if err := jsonx.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &state, nil
}

func (s *BoltStore) Save(state *State) error {
	raw, err := jsonx.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLedger).Put(keyState, raw)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
