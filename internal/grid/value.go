package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the closed set of value shapes a cell can coerce to.
// Downstream code switches on Kind instead of doing type inspection.
type Kind int

const (
	KindEmpty Kind = iota
	KindBool
	KindNull
	KindInt
	KindFloat
	KindDate // date-like string, validated but kept verbatim
	KindString
	KindJSON
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	case KindJSON:
		return "json"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value is a coerced cell value. Only the field matching Kind is set.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Float float64
	Str   string // KindDate, KindString
	JSON  any    // KindJSON: decoded encoding/json value
	List  []Value
}

func Null() Value           { return Value{Kind: KindNull} }
func Empty() Value          { return Value{Kind: KindEmpty} }
func Bool(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func Int(n int64) Value     { return Value{Kind: KindInt, Int: n} }
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func Str(s string) Value    { return Value{Kind: KindString, Str: s} }
func Date(s string) Value   { return Value{Kind: KindDate, Str: s} }
func List(vs ...Value) Value {
	return Value{Kind: KindList, List: vs}
}

// IsList reports whether the value holds an ordered list.
func (v Value) IsList() bool { return v.Kind == KindList }

// Text returns a display form of the value. Strings and dates come back
// verbatim; collections render comma separated.
func (v Value) Text() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindDate, KindString:
		return v.Str
	case KindJSON:
		return fmt.Sprint(v.JSON)
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, e := range v.List {
			parts = append(parts, e.Text())
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// Equal compares two values structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindEmpty, KindNull:
		return true
	case KindBool:
		return v.Bool == o.Bool
	case KindInt:
		return v.Int == o.Int
	case KindFloat:
		return v.Float == o.Float
	case KindDate, KindString:
		return v.Str == o.Str
	case KindJSON:
		return fmt.Sprint(v.JSON) == fmt.Sprint(o.JSON)
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
