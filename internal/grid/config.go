package grid

import "strings"

// Rectangularize pads every row with empty cells up to the longest row
// length, in place, and returns the same slice. Spreadsheet backends
// return ragged rows; all downstream indexing assumes a rectangle.
func Rectangularize(rows [][]string) [][]string {
	if len(rows) == 0 {
		return rows
	}
	ncols := 0
	for _, r := range rows {
		if len(r) > ncols {
			ncols = len(r)
		}
	}
	for i, r := range rows {
		for len(r) < ncols {
			r = append(r, "")
		}
		rows[i] = r
	}
	return rows
}

// ExtractConfig turns a key/value-row grid into a typed mapping. The key
// is the trimmed first cell; rows with an empty first cell are skipped.
// Rows are processed top to bottom, so a later row with a duplicate key
// overwrites the earlier one.
func ExtractConfig(rows [][]string) map[string]Value {
	out := map[string]Value{}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		key := strings.TrimSpace(row[0])
		if key == "" {
			continue
		}
		out[key] = CoerceCollection(row[1:])
	}
	return out
}

// CountRunners sizes layout from a config value: a list counts its
// elements, a single string counts one, everything else (numbers, null,
// missing) counts zero.
func CountRunners(v Value) int {
	switch v.Kind {
	case KindList:
		return len(v.List)
	case KindString, KindDate:
		return 1
	default:
		return 0
	}
}
