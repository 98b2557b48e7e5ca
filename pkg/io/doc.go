// Package io provides JSON import and export for generated mazes.
//
// # Overview
//
// A maze document records everything needed to draw a maze again without
// regenerating it: dimensions, every cell's walls, the deepest marker, and
// the seed and counters of the run that produced it. Re-rendering an
// exported maze at a different resolution or palette goes through this
// package.
//
// # JSON Format
//
//	{
//	  "version": 1,
//	  "width": 3,
//	  "height": 2,
//	  "seed": 42,
//	  "deepest": {"row": 1, "col": 0},
//	  "deepest_len": 6,
//	  "stats": {"advances": 5, "backtracks": 0, "max_stack": 6},
//	  "rows": ["ba6", "bac"]
//	}
//
// Each row is a string of hex digits, one per cell. A digit is the cell's
// wall mask: bit 0 left, bit 1 up, bit 2 right, bit 3 down. "f" is a
// fully walled cell.
//
// # Import
//
// [ReadJSON] and [ImportJSON] decode a document and rebuild a
// [maze.Snapshot]. The walls must describe a perfect maze (symmetric
// borders, walled edges, every cell reachable, no loops); anything else is
// rejected with an INVALID_DOCUMENT error.
//
//	snap, err := io.ImportJSON("maze.json")
//
// # Export
//
// [WriteJSON] and [ExportJSON] accept a [*maze.Maze] or a [*maze.Snapshot].
//
//	err := io.ExportJSON(m, "maze.json")
package io
