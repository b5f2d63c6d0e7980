package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// ColLetter converts a 1-based column number to its A1 letter form
// (1 -> "A", 27 -> "AA").
func ColLetter(n int) string {
	if n < 1 {
		return "A"
	}
	var out []byte
	for n > 0 {
		n--
		out = append(out, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// CellRef builds an A1 reference from 1-based row and column numbers.
func CellRef(row, col int) string {
	return ColLetter(col) + strconv.Itoa(row)
}

// RangeRef builds an A1 range from 1-based corners, inclusive.
func RangeRef(r1, c1, r2, c2 int) string {
	return CellRef(r1, c1) + ":" + CellRef(r2, c2)
}

// ParseRef splits an A1 reference into 1-based row and column numbers.
func ParseRef(ref string) (row, col int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return row, col, nil
}
