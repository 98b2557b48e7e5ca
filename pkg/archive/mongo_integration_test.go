//go:build integration

package archive

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

func TestMongoStore_Integration(t *testing.T) {
	uri := os.Getenv("LABYRINTH_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("LABYRINTH_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "labyrinth_test", Collection: uuid.NewString()})
	if err != nil {
		t.Fatalf("NewMongoStore() error: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()

	older := Record{ID: uuid.NewString(), Width: 3, Height: 3, Seed: 1, CreatedAt: time.Now().Add(-time.Hour).UTC().Truncate(time.Millisecond)}
	newer := Record{ID: uuid.NewString(), Width: 4, Height: 4, Seed: 2, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	for _, r := range []Record{older, newer} {
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
	}

	got, err := s.Get(ctx, older.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Width != 3 || got.Seed != 1 {
		t.Errorf("Get() = %+v, want width 3 seed 1", got)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Errorf("List() order = %v, want newest first", list)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(missing) error = %v, want NOT_FOUND", err)
	}
}
