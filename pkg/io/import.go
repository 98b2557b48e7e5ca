package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/maze"
)

// ReadJSON decodes a maze document from r and rebuilds the maze it
// describes. Malformed JSON, an unknown version, rows that do not match the
// dimensions, and walls that do not form a perfect maze are all reported as
// INVALID_DOCUMENT. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*maze.Snapshot, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode")
	}
	return doc.Snapshot()
}

// ImportJSON reads a maze document from the file at path.
func ImportJSON(path string) (*maze.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	snap, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}

// Snapshot validates the document and rebuilds its maze.
func (d Document) Snapshot() (*maze.Snapshot, error) {
	if d.Version != Version {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unsupported document version %d", d.Version)
	}
	if err := errors.ValidateDimensions(d.Width, d.Height); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "dimensions")
	}
	if len(d.Rows) != d.Height {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "expected %d rows, got %d", d.Height, len(d.Rows))
	}

	cells := make([]maze.Cell, 0, d.Width*d.Height)
	for r, row := range d.Rows {
		if len(row) != d.Width {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "row %d: expected %d cells, got %d", r, d.Width, len(row))
		}
		for c := 0; c < len(row); c++ {
			mask := strings.IndexByte(hexDigits, lower(row[c]))
			if mask < 0 {
				return nil, errors.New(errors.ErrCodeInvalidDocument, "row %d col %d: invalid wall mask %q", r, c, row[c])
			}
			var cell maze.Cell
			for _, dir := range maze.Directions {
				if mask&(1<<dir) == 0 {
					cell.Borders[dir] = maze.Passage
				}
			}
			cells = append(cells, cell)
		}
	}

	p := maze.SnapshotParams{
		Width:      d.Width,
		Height:     d.Height,
		Cells:      cells,
		Deepest:    d.Deepest,
		DeepestLen: d.DeepestLen,
		Seed:       d.Seed,
	}
	if d.Stats != nil {
		p.Stats = *d.Stats
	}
	return maze.NewSnapshot(p)
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'F' {
		return b + ('a' - 'A')
	}
	return b
}
