package sheets

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore is an in-process Store used by tests and the dry-run
// backend. Grids auto-grow on writes outside their created bounds, which
// matches how the hosted backends behave with USER_ENTERED appends.
type MemoryStore struct {
	mu     sync.RWMutex
	grids  map[string][][]string
	frozen map[string]int
}

func NewMemory() *MemoryStore {
	return &MemoryStore{grids: map[string][][]string{}, frozen: map[string]int{}}
}

// Seed replaces a sheet's contents wholesale. Test helper.
func (m *MemoryStore) Seed(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	m.grids[sheet] = cp
}

// FrozenRows reports how many header rows were pinned. Test helper.
func (m *MemoryStore) FrozenRows(sheet string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.frozen[sheet]
}

func (m *MemoryStore) Grid(ctx context.Context, sheet string) ([][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rows, ok := m.grids[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	return cp, nil
}

func (m *MemoryStore) Create(ctx context.Context, sheet string, rows, cols int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grids[sheet]; ok {
		return fmt.Errorf("sheet %q: %w", sheet, ErrSheetExists)
	}
	g := make([][]string, rows)
	for i := range g {
		g[i] = make([]string, cols)
	}
	m.grids[sheet] = g
	return nil
}

func (m *MemoryStore) WriteRange(ctx context.Context, sheet, topLeft string, matrix [][]string) error {
	row, col, err := ParseRef(topLeft)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grids[sheet]
	if !ok {
		return fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	for i, r := range matrix {
		for j, v := range r {
			g = setCell(g, row-1+i, col-1+j, v)
		}
	}
	m.grids[sheet] = g
	return nil
}

func (m *MemoryStore) WriteCells(ctx context.Context, sheet string, writes []CellWrite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.grids[sheet]
	if !ok {
		return fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	for _, w := range writes {
		row, col, err := ParseRef(w.Ref)
		if err != nil {
			return err
		}
		g = setCell(g, row-1, col-1, w.Value)
	}
	m.grids[sheet] = g
	return nil
}

func (m *MemoryStore) FreezeRows(ctx context.Context, sheet string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grids[sheet]; !ok {
		return fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
	}
	m.frozen[sheet] = n
	return nil
}

func setCell(g [][]string, row, col int, v string) [][]string {
	for len(g) <= row {
		g = append(g, nil)
	}
	for len(g[row]) <= col {
		g[row] = append(g[row], "")
	}
	g[row][col] = v
	return g
}
