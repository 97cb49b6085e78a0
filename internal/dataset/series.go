package dataset

import "math"

// Series is a named, typed, immutable column. Numeric series store nulls as
// NaN; string series store nulls as "".
type Series struct {
	name string
	kind Kind
	nums []float64
	strs []string
}

// NumberSeries builds a numeric column. vals is copied.
func NumberSeries(name string, vals []float64) *Series {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	return &Series{name: name, kind: KindNumber, nums: cp}
}

// StringSeries builds a string column. vals is copied.
func StringSeries(name string, vals []string) *Series {
	cp := make([]string, len(vals))
	copy(cp, vals)
	return &Series{name: name, kind: KindString, strs: cp}
}

// ValueSeries builds a column from cells. The series is numeric when every
// non-null cell is a number, otherwise string.
func ValueSeries(name string, vals []Value) *Series {
	numeric := true
	for _, v := range vals {
		if v.kind == KindString {
			numeric = false
			break
		}
	}
	if numeric {
		nums := make([]float64, len(vals))
		for i, v := range vals {
			if v.kind == KindNumber {
				nums[i] = v.num
			} else {
				nums[i] = math.NaN()
			}
		}
		return &Series{name: name, kind: KindNumber, nums: nums}
	}
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = v.String()
	}
	return &Series{name: name, kind: KindString, strs: strs}
}

func (s *Series) Name() string { return s.name }

// Kind is KindNumber or KindString.
func (s *Series) Kind() Kind { return s.kind }

func (s *Series) Len() int {
	if s.kind == KindNumber {
		return len(s.nums)
	}
	return len(s.strs)
}

// At returns the i-th cell.
func (s *Series) At(i int) Value {
	if s.kind == KindNumber {
		return Number(s.nums[i])
	}
	return String(s.strs[i])
}

// Floats returns a copy of the numeric payload; nulls and non-numeric cells
// are NaN.
func (s *Series) Floats() []float64 {
	out := make([]float64, s.Len())
	if s.kind == KindNumber {
		copy(out, s.nums)
		return out
	}
	for i := range s.strs {
		if f, ok := String(s.strs[i]).Float(); ok {
			out[i] = f
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Strings returns a copy of the cells rendered as strings; nulls are "".
func (s *Series) Strings() []string {
	out := make([]string, s.Len())
	if s.kind == KindString {
		copy(out, s.strs)
		return out
	}
	for i := range s.nums {
		out[i] = Number(s.nums[i]).String()
	}
	return out
}

// Interfaces returns the cells as nil, float64 or string, ready for JSON.
func (s *Series) Interfaces() []any {
	out := make([]any, s.Len())
	for i := range out {
		out[i] = s.At(i).Interface()
	}
	return out
}

// Renamed returns the same data under another name.
func (s *Series) Renamed(name string) *Series {
	cp := *s
	cp.name = name
	return &cp
}

func (s *Series) head(n int) *Series {
	cp := *s
	if s.kind == KindNumber {
		cp.nums = s.nums[:n:n]
	} else {
		cp.strs = s.strs[:n:n]
	}
	return &cp
}
