// Package cache provides in-process caching of rendered artifacts.
//
// Rendering a layer image is far slower than looking up its forest, so the
// query server keeps recently rendered images keyed by generator run, layer
// and render options. Entries live only as long as the process.
//
// # Usage
//
//	c := cache.NewMemoryCache(256)
//	key := cache.ArtifactKey(g.RunID(), cache.ArtifactKeyOpts{Object: "part", Layer: 12, Format: "svg"})
//	if data, hit, _ := c.Get(ctx, key); hit {
//	    return data
//	}
//	data := render(...)
//	_ = c.Set(ctx, key, data, cache.TTLArtifact)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts are kept.
const TTLArtifact = time.Hour

// Cache stores byte slices by key.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key for ttl. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
	// Close releases the cache.
	Close() error
}
