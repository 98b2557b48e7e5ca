package archive

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

func TestNewRecord(t *testing.T) {
	m := maze.MustNew(5, 4, maze.WithSeed(77))
	m.Generate()

	rec := NewRecord(m.Snapshot(), []string{"png"}, "cli")
	_, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.Width)
	assert.Equal(t, 4, rec.Height)
	assert.Equal(t, uint64(77), rec.Seed)
	assert.Equal(t, m.Deepest(), rec.Deepest)
	assert.Equal(t, m.Stats(), rec.Stats)
	assert.WithinDuration(t, time.Now(), rec.CreatedAt, time.Minute)
	assert.NotEqual(t, rec.ID, NewRecord(m.Snapshot(), nil, "cli").ID)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Save(ctx, Record{ID: fmt.Sprint(i), Width: i + 1}))
	}

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "4", list[0].ID, "newest first")
	assert.Equal(t, "2", list[2].ID)

	_, err = s.Get(ctx, "0")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "evicted record")

	rec, err := s.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 4, rec.Width)

	require.NoError(t, s.Save(ctx, Record{ID: "3", Width: 99}))
	rec, err = s.Get(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 99, rec.Width)

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	require.NoError(t, s.Save(ctx, Record{ID: "x"}))
	_, err := s.Get(ctx, "x")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordDocSeed(t *testing.T) {
	rec := Record{
		ID:        "id",
		Seed:      math.MaxUint64,
		Duration:  1500 * time.Millisecond,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	back := toDoc(rec).record()
	assert.Equal(t, rec, back)
}
