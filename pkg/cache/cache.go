// Package cache stores rendered maze artifacts.
//
// A maze is fully determined by its dimensions and seed, so its rendered
// files can be cached under a key derived from those inputs plus the render
// settings. The CLI uses a [FileCache] under the XDG cache directory; the
// HTTP server can share a [RedisCache] between replicas. [NullCache]
// disables caching.
//
// Mazes built from a time-derived seed are never cached: their seed is
// random, so nobody will ask for them again.
package cache

import (
	"context"
	"time"
)

// TTLs for cached entries.
const (
	// TTLMaze is how long an exported maze document is kept.
	TTLMaze = 30 * 24 * time.Hour

	// TTLArtifact is how long a rendered file is kept.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connections.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}

// MazeKeyOpts identifies a generated maze.
type MazeKeyOpts struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Seed   uint64 `json:"seed"`
}

// ArtifactKeyOpts identifies one rendering of a maze.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Resolution  int    `json:"resolution"`
	Scale       int    `json:"scale"`
	Background  string `json:"background"`
	Wall        string `json:"wall"`
	Accent      string `json:"accent"`
	MarkOrigin  bool   `json:"mark_origin"`
	MarkDeepest bool   `json:"mark_deepest"`
}

// Keyer derives cache keys.
type Keyer interface {
	// MazeKey returns the key of a maze document.
	MazeKey(opts MazeKeyOpts) string

	// ArtifactKey returns the key of a rendered file of the maze stored
	// under mazeKey.
	ArtifactKey(mazeKey string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// MazeKey returns "maze:<hash>".
func (DefaultKeyer) MazeKey(opts MazeKeyOpts) string {
	return hashKey("maze", opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(mazeKey string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", mazeKey, opts)
}

var _ Keyer = DefaultKeyer{}
