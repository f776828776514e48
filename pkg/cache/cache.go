// Package cache provides pluggable result caching for transform chains.
//
// The CLI uses a file-based cache under the user's cache directory; the
// companion server can point at redis instead. A NullCache disables
// caching entirely. Keys are derived from content hashes so identical
// snapshots and op lists share entries across invocations.
package cache

import (
	"context"
	"time"
)

// TTLs for the cached artifact classes.
const (
	// TTLChain is how long transformed chain results stay cached. Chains
	// are pure functions of their inputs, so this is generous.
	TTLChain = 7 * 24 * time.Hour

	// TTLSnapshot is how long parsed snapshot payloads stay cached.
	TTLSnapshot = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a time-to-live. A zero ttl means no
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys. Implementations must be deterministic:
// the same inputs always produce the same key.
type Keyer interface {
	// ChainKey keys a transform chain result by the input snapshot's
	// content hash and the serialized op list.
	ChainKey(snapshotHash string, opsHash string) string

	// SnapshotKey keys a raw snapshot payload.
	SnapshotKey(hash string) string
}

// DefaultKeyer produces sha-256 based keys with stable prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ChainKey generates a key for a chain result.
func (k *DefaultKeyer) ChainKey(snapshotHash, opsHash string) string {
	return hashKey("chain", snapshotHash, opsHash)
}

// SnapshotKey generates a key for a snapshot payload.
func (k *DefaultKeyer) SnapshotKey(hash string) string {
	return hashKey("snapshot", hash)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
