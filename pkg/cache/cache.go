// Package cache provides the artifact cache for the poster pipeline.
//
// Rendered posters are keyed by a content hash of the fully resolved
// request (extent, theme, layout, canvas size, format), so identical
// requests are served from cache byte-for-byte. Backends:
//
//   - FileCache: on-disk cache for CLI usage (XDG cache dir)
//   - RedisCache: shared cache for server deployments
//   - NullCache: caching disabled (--no-cache, tests)
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Default TTLs per cached artifact kind.
const (
	// TTLArtifact is how long rendered poster bytes stay valid. Map data
	// changes slowly; a week keeps repeat renders instant.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte blobs with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// found and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value with a time-to-live. A TTL of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for pipeline artifacts.
type Keyer interface {
	// ArtifactKey keys a rendered artifact by request hash and format.
	ArtifactKey(requestHash, format string) string
}

// DefaultKeyer generates plain, unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(requestHash, format string) string {
	return fmt.Sprintf("artifact:%s:%s", requestHash, format)
}

// Hash computes the SHA-256 hash of data as a 64-char hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// HashJSON hashes the canonical JSON encoding of v. Used to derive request
// hashes from resolved poster requests.
func HashJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Hash(data), nil
}
