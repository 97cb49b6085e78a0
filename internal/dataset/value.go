package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the type of a single cell.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value is one immutable table cell: null, a number or a string.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Null returns the missing value.
func Null() Value { return Value{} }

// Number wraps f. NaN is stored as null.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// String wraps s. The empty string is stored as null.
func String(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the numeric payload. String cells that parse as numbers are
// accepted so that mean computations can skip only truly non-numeric cells.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Int returns the value as an integer if it is a whole number.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Str returns the string payload, or "" for non-string cells.
func (v Value) Str() string {
	if v.kind == KindString {
		return v.str
	}
	return ""
}

// String renders the cell for display.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return ""
	}
}

// Interface returns nil, float64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && math.IsInf(v.num, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Interface())
}

// Compare orders values: null < number < string; numbers numerically,
// strings lexicographically.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case KindString:
		return strings.Compare(a.str, b.str)
	default:
		return 0
	}
}

// CompareTuple orders key tuples lexicographically.
func CompareTuple(a, b []Value) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
