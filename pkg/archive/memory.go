package archive

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

// DefaultMemoryCapacity bounds a MemoryStore created with capacity 0.
const DefaultMemoryCapacity = 1000

// MemoryStore keeps the most recent records in process memory. Once full,
// saving evicts the oldest record.
type MemoryStore struct {
	mu       sync.RWMutex
	capacity int
	records  []Record // oldest first
}

// NewMemoryStore creates a store holding up to capacity records.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{capacity: capacity}
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(rec.ID); i >= 0 {
		s.records[i] = rec
		return nil
	}
	if len(s.records) == s.capacity {
		s.records = slices.Delete(s.records, 0, 1)
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.index(id); i >= 0 {
		return s.records[i], nil
	}
	return Record{}, errors.New(errors.ErrCodeNotFound, "record %s not found", id)
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for i := len(s.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) index(id string) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}

// NullStore discards every record.
type NullStore struct{}

// NewNullStore creates a store that records nothing.
func NewNullStore() NullStore { return NullStore{} }

func (NullStore) Save(context.Context, Record) error { return nil }
func (NullStore) Get(_ context.Context, id string) (Record, error) {
	return Record{}, errors.New(errors.ErrCodeNotFound, "record %s not found", id)
}
func (NullStore) List(context.Context, int) ([]Record, error) { return nil, nil }
func (NullStore) Close(context.Context) error                 { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = NullStore{}
)
