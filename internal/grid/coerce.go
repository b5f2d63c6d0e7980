package grid

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	intRE   = regexp.MustCompile(`^[+-]?\d+$`)
	floatRE = regexp.MustCompile(`^[+-]?(?:\d+\.\d+|\d+\.|\.\d+|\d+)(?:[eE][+-]?\d+)?$`)
	// Date, optional time, optional fractional seconds, optional Z/offset.
	isoRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d{1,6})?)?(?:Z|[+-]\d{2}:\d{2})?)?$`)
)

func bracketed(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}

// CoerceScalar converts one raw cell into a typed Value. It is total:
// whatever the input, the worst case is the trimmed string back as
// KindString. Date-like strings are validated but not parsed; consumers
// that need a time.Time re-parse them.
func CoerceScalar(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty()
	}

	if bracketed(s) {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return Value{Kind: KindJSON, JSON: v}
		}
		// malformed JSON falls through to the remaining rules
	}

	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null", "none":
		return Null()
	}

	if intRE.MatchString(s) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(n)
		}
		// out of int64 range: the float rule below still matches
	}
	if floatRE.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Float(f)
		}
	}

	if isoRE.MatchString(s) {
		return Date(s)
	}
	return Str(s)
}

// CoerceCollection converts the value cells of a config row.
//
// The result is three-tiered and callers type-test it: no non-empty cells
// yields Null (not an empty list), exactly one cell collapses to its
// scalar coercion, several cells become a list. A single non-bracketed
// cell containing commas is split into parts first, so "a,b" behaves
// like two cells.
func CoerceCollection(cells []string) Value {
	vals := make([]string, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if c != "" {
			vals = append(vals, c)
		}
	}
	if len(vals) == 0 {
		return Null()
	}
	if len(vals) == 1 {
		v := vals[0]
		if !bracketed(v) && strings.Contains(v, ",") {
			parts := make([]string, 0, 4)
			for _, p := range strings.Split(v, ",") {
				p = strings.TrimSpace(p)
				if p != "" {
					parts = append(parts, p)
				}
			}
			if len(parts) > 1 {
				out := make([]Value, 0, len(parts))
				for _, p := range parts {
					out = append(out, CoerceScalar(p))
				}
				return Value{Kind: KindList, List: out}
			}
			return CoerceScalar(v)
		}
		return CoerceScalar(v)
	}
	out := make([]Value, 0, len(vals))
	for _, v := range vals {
		out = append(out, CoerceScalar(v))
	}
	return Value{Kind: KindList, List: out}
}
