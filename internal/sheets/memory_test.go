package sheets

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryCreateAndGrid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()

	if err := m.Create(ctx, "s", 3, 2); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Create(ctx, "s", 3, 2); !errors.Is(err, ErrSheetExists) {
		t.Fatalf("duplicate Create: got %v, want ErrSheetExists", err)
	}
	rows, err := m.Grid(ctx, "s")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(rows) != 3 || len(rows[0]) != 2 {
		t.Fatalf("Grid shape = %dx%d, want 3x2", len(rows), len(rows[0]))
	}
	if _, err := m.Grid(ctx, "missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Fatalf("missing Grid: got %v, want ErrSheetNotFound", err)
	}
}

func TestMemoryWriteRangeGrows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	if err := m.Create(ctx, "s", 1, 1); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := m.WriteRange(ctx, "s", "B2", [][]string{{"x", "y"}, {"z", "w"}})
	if err != nil {
		t.Fatalf("WriteRange: %v", err)
	}
	rows, err := m.Grid(ctx, "s")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rows[1][1] != "x" || rows[2][2] != "w" {
		t.Errorf("unexpected grid after WriteRange: %v", rows)
	}
}

func TestMemoryWriteCells(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	m.Seed("s", [][]string{{"h"}})
	err := m.WriteCells(ctx, "s", []CellWrite{
		{Ref: "A2", Value: "one"},
		{Ref: "C1", Value: "two"},
	})
	if err != nil {
		t.Fatalf("WriteCells: %v", err)
	}
	rows, err := m.Grid(ctx, "s")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if rows[1][0] != "one" || rows[0][2] != "two" {
		t.Errorf("unexpected grid after WriteCells: %v", rows)
	}
}

func TestMemoryGridReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	m := NewMemory()
	m.Seed("s", [][]string{{"a"}})
	rows, err := m.Grid(ctx, "s")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	rows[0][0] = "mutated"
	again, err := m.Grid(ctx, "s")
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if again[0][0] != "a" {
		t.Error("Grid exposed internal state")
	}
}
