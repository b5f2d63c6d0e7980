// Package sheets abstracts the external spreadsheet backend the bot
// keeps its grids in. Every operation is a bounded read or write; the
// system never caches a grid between calls, so a Store implementation
// may re-open its backing resource per call.
package sheets

import (
	"context"
	"errors"
)

var (
	ErrSheetExists   = errors.New("sheet already exists")
	ErrSheetNotFound = errors.New("sheet not found")
)

// CellWrite is one sparse single-cell update.
type CellWrite struct {
	Ref   string // A1 reference within the sheet, e.g. "C5"
	Value string
}

// Store is the grid-access collaborator. Rows returned by Grid may be
// ragged; callers rectangularize before indexing.
type Store interface {
	// Grid returns the full cell grid of the named sheet.
	Grid(ctx context.Context, sheet string) ([][]string, error)
	// Create makes a new sheet sized exactly rows x cols. Fails with
	// ErrSheetExists when the name collides.
	Create(ctx context.Context, sheet string, rows, cols int) error
	// WriteRange writes a rectangular matrix with its top-left corner at
	// the given A1 reference.
	WriteRange(ctx context.Context, sheet, topLeft string, matrix [][]string) error
	// WriteCells applies sparse single-cell updates.
	WriteCells(ctx context.Context, sheet string, writes []CellWrite) error
	// FreezeRows pins the top n rows. Cosmetic; callers treat failure as
	// non-fatal.
	FreezeRows(ctx context.Context, sheet string, n int) error
}
