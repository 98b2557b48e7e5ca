package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/labyrinth/pkg/maze"
)

// Version is the document version written by this package.
const Version = 1

const hexDigits = "0123456789abcdef"

// Source is a maze that can be exported. *maze.Maze and *maze.Snapshot
// satisfy it.
type Source interface {
	maze.View
	Seed() uint64
	DeepestLen() int
	Stats() maze.Stats
}

// Document is the JSON form of a maze.
type Document struct {
	Version    int           `json:"version"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Seed       uint64        `json:"seed,omitempty"`
	Deepest    maze.Position `json:"deepest"`
	DeepestLen int           `json:"deepest_len"`
	Stats      *maze.Stats   `json:"stats,omitempty"`
	Rows       []string      `json:"rows"`
}

// NewDocument captures src as a document.
func NewDocument(src Source) Document {
	stats := src.Stats()
	doc := Document{
		Version:    Version,
		Width:      src.Width(),
		Height:     src.Height(),
		Seed:       src.Seed(),
		Deepest:    src.Deepest(),
		DeepestLen: src.DeepestLen(),
		Stats:      &stats,
		Rows:       make([]string, src.Height()),
	}
	row := make([]byte, src.Width())
	for r := 0; r < src.Height(); r++ {
		for c := 0; c < src.Width(); c++ {
			row[c] = hexDigits[wallMask(src.Cell(r, c))]
		}
		doc.Rows[r] = string(row)
	}
	return doc
}

func wallMask(c maze.Cell) int {
	mask := 0
	for _, d := range maze.Directions {
		if c.IsWall(d) {
			mask |= 1 << d
		}
	}
	return mask
}

// WriteJSON encodes src as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(src Source, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(src)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes src to a JSON file at path.
func ExportJSON(src Source, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(src, f)
}
