// Package archive keeps a history of generated mazes.
//
// Every generation run can be recorded with its dimensions, seed, deepest
// marker and counters. Since a seeded maze is reproducible, a record is
// enough to regenerate and re-render it later.
//
// Three stores are provided: [MongoStore] for a shared, persistent history,
// [MemoryStore] for a single server process, and [NullStore] when history
// is disabled.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

// Record describes one generation run.
type Record struct {
	ID         string        `json:"id"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Seed       uint64        `json:"seed"`
	Deepest    maze.Position `json:"deepest"`
	DeepestLen int           `json:"deepest_len"`
	Stats      maze.Stats    `json:"stats"`
	Formats    []string      `json:"formats,omitempty"`
	Origin     string        `json:"origin,omitempty"` // "cli" or "http"
	CacheHit   bool          `json:"cache_hit"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// NewRecord fills a record from a generated maze with a fresh ID and the
// current time.
func NewRecord(m *maze.Snapshot, formats []string, origin string) Record {
	return Record{
		ID:         uuid.NewString(),
		Width:      m.Width(),
		Height:     m.Height(),
		Seed:       m.Seed(),
		Deepest:    m.Deepest(),
		DeepestLen: m.DeepestLen(),
		Stats:      m.Stats(),
		Formats:    formats,
		Origin:     origin,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists records. Implementations must be safe for concurrent use.
type Store interface {
	// Save stores rec. Saving an existing ID replaces it.
	Save(ctx context.Context, rec Record) error

	// Get returns the record with the given ID, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases connections.
	Close(ctx context.Context) error
}
