package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps grids in a local .xlsx workbook. Intended for offline
// and dry-run use; each call opens, mutates and saves the workbook so no
// grid state survives in process between calls.
type XLSXStore struct {
	path string
	log  *slog.Logger

	mu sync.Mutex
}

func NewXLSX(path string, log *slog.Logger) (*XLSXStore, error) {
	if path == "" {
		return nil, errors.New("sheets: workbook path is empty")
	}
	return &XLSXStore{path: path, log: log}, nil
}

func (x *XLSXStore) Grid(ctx context.Context, sheet string) ([][]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer f.Close()
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("xlsx: sheet %q: %w", sheet, ErrSheetNotFound)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %q: %w", sheet, err)
	}
	return rows, nil
}

func (x *XLSXStore) Create(ctx context.Context, sheet string, rows, cols int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	f, created, err := x.open()
	if err != nil {
		return err
	}
	defer f.Close()
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		return fmt.Errorf("sheet %q: %w", sheet, ErrSheetExists)
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: create %q: %w", sheet, err)
	}
	// rows/cols are advisory here; xlsx sheets grow on demand.
	return x.save(f, created)
}

func (x *XLSXStore) WriteRange(ctx context.Context, sheet, topLeft string, matrix [][]string) error {
	if len(matrix) == 0 {
		return nil
	}
	row, col, err := ParseRef(topLeft)
	if err != nil {
		return err
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer f.Close()
	for i, r := range matrix {
		cells := make([]any, len(r))
		for j, c := range r {
			cells[j] = c
		}
		if err := f.SetSheetRow(sheet, CellRef(row+i, col), &cells); err != nil {
			return fmt.Errorf("xlsx: write row %d of %q: %w", row+i, sheet, err)
		}
	}
	return x.save(f, false)
}

func (x *XLSXStore) WriteCells(ctx context.Context, sheet string, writes []CellWrite) error {
	if len(writes) == 0 {
		return nil
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer f.Close()
	for _, w := range writes {
		if err := f.SetCellStr(sheet, w.Ref, w.Value); err != nil {
			return fmt.Errorf("xlsx: write %s!%s: %w", sheet, w.Ref, err)
		}
	}
	return x.save(f, false)
}

func (x *XLSXStore) FreezeRows(ctx context.Context, sheet string, n int) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	f, err := excelize.OpenFile(x.path)
	if err != nil {
		return fmt.Errorf("xlsx: open %s: %w", x.path, err)
	}
	defer f.Close()
	panes := &excelize.Panes{
		Freeze:      true,
		YSplit:      n,
		TopLeftCell: CellRef(n+1, 1),
		ActivePane:  "bottomLeft",
	}
	if err := f.SetPanes(sheet, panes); err != nil {
		return fmt.Errorf("xlsx: freeze rows in %q: %w", sheet, err)
	}
	return x.save(f, false)
}

// open returns the workbook, creating a fresh one when the file does not
// exist yet. The second result reports whether it was created.
func (x *XLSXStore) open() (*excelize.File, bool, error) {
	f, err := excelize.OpenFile(x.path)
	if err == nil {
		return f, false, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return excelize.NewFile(), true, nil
	}
	return nil, false, fmt.Errorf("xlsx: open %s: %w", x.path, err)
}

func (x *XLSXStore) save(f *excelize.File, created bool) error {
	if created {
		if err := f.SaveAs(x.path); err != nil {
			return fmt.Errorf("xlsx: save %s: %w", x.path, err)
		}
		return nil
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("xlsx: save %s: %w", x.path, err)
	}
	return nil
}
