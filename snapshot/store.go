package snapshot

import "errors"

// ErrNotFound is returned by Load when no snapshot has ever been saved.
// The ledger treats it (and any other load failure) as a signal to
// synthesize a fresh genesis chain.
var ErrNotFound = errors.New("snapshot not found")

// Store abstracts the snapshot storage backend (bbolt, plain file, ...).
// Load is called exactly once at startup; Save receives the full current
// state on every append.
type Store interface {
	Load() (*State, error)
	Save(*State) error
	Close() error
}
