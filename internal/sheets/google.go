package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleStore talks to one Google spreadsheet through the Sheets API.
// Values are written with USER_ENTERED so the backend applies its usual
// cell typing, matching what a human pasting the same text would get.
type GoogleStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	log           *slog.Logger
}

func NewGoogle(ctx context.Context, spreadsheetID, credentialsFile string, log *slog.Logger) (*GoogleStore, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("sheets: spreadsheet id is empty")
	}
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets: init service: %w", err)
	}
	return &GoogleStore{svc: svc, spreadsheetID: spreadsheetID, log: log}, nil
}

func (g *GoogleStore) Grid(ctx context.Context, sheet string) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteSheet(sheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %q: %w", sheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, 0, len(r))
		for _, c := range r {
			if c == nil {
				row = append(row, "")
				continue
			}
			row = append(row, fmt.Sprint(c))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *GoogleStore) Create(ctx context.Context, sheet string, rows, cols int) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: sheet,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, "already exists") {
			return fmt.Errorf("sheet %q: %w", sheet, ErrSheetExists)
		}
		return fmt.Errorf("sheets: create %q: %w", sheet, err)
	}
	return nil
}

func (g *GoogleStore) WriteRange(ctx context.Context, sheet, topLeft string, matrix [][]string) error {
	if len(matrix) == 0 {
		return nil
	}
	row, col, err := ParseRef(topLeft)
	if err != nil {
		return err
	}
	rng := fmt.Sprintf("%s!%s", quoteSheet(sheet),
		RangeRef(row, col, row+len(matrix)-1, col+len(matrix[0])-1))
	vr := &sheetsapi.ValueRange{Values: toAnyMatrix(matrix)}
	_, err = g.svc.Spreadsheets.Values.Update(g.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: write range %s: %w", rng, err)
	}
	return nil
}

func (g *GoogleStore) WriteCells(ctx context.Context, sheet string, writes []CellWrite) error {
	if len(writes) == 0 {
		return nil
	}
	data := make([]*sheetsapi.ValueRange, 0, len(writes))
	for _, w := range writes {
		data = append(data, &sheetsapi.ValueRange{
			Range:  fmt.Sprintf("%s!%s", quoteSheet(sheet), w.Ref),
			Values: [][]any{{w.Value}},
		})
	}
	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}
	if _, err := g.svc.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: write cells in %q: %w", sheet, err)
	}
	return nil
}

func (g *GoogleStore) FreezeRows(ctx context.Context, sheet string, n int) error {
	sheetID, err := g.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			UpdateSheetProperties: &sheetsapi.UpdateSheetPropertiesRequest{
				Properties: &sheetsapi.SheetProperties{
					SheetId:        sheetID,
					GridProperties: &sheetsapi.GridProperties{FrozenRowCount: int64(n)},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		}},
	}
	if _, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: freeze rows in %q: %w", sheet, err)
	}
	return nil
}

func (g *GoogleStore) sheetID(ctx context.Context, sheet string) (int64, error) {
	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: lookup %q: %w", sheet, err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			return s.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q: %w", sheet, ErrSheetNotFound)
}

func quoteSheet(sheet string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
}

func toAnyMatrix(matrix [][]string) [][]any {
	out := make([][]any, 0, len(matrix))
	for _, row := range matrix {
		r := make([]any, 0, len(row))
		for _, c := range row {
			r = append(r, c)
		}
		out = append(out, r)
	}
	return out
}
