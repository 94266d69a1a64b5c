package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ArtifactKeyOpts identifies one rendered artifact of a generator run.
type ArtifactKeyOpts struct {
	Object string  `json:"object"`
	Layer  int     `json:"layer"`
	Format string  `json:"format"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// ArtifactKey generates the cache key of an artifact rendered from run.
func ArtifactKey(run string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", run, opts)
}

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
