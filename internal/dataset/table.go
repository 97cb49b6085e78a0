package dataset

import (
	"errors"
	"fmt"
)

// ErrUnknownColumn is returned when a column name is not present in a table.
var ErrUnknownColumn = errors.New("unknown column")

// Table is an immutable, column-oriented set of records. Every transformation
// returns a new Table; derived tables may share column storage with their
// source, which is safe because no method mutates a Series.
type Table struct {
	series []*Series
	index  map[string]int
	rows   int
}

// NewTable assembles a table from equal-length columns with unique names.
func NewTable(cols ...*Series) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for i, s := range cols {
		if s == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[s.name]; dup {
			return nil, fmt.Errorf("duplicate column %q", s.name)
		}
		if i == 0 {
			t.rows = s.Len()
		} else if s.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", s.name, s.Len(), t.rows)
		}
		t.index[s.name] = i
		t.series = append(t.series, s)
	}
	return t, nil
}

// FromRows builds a table from row-major cells, inferring each column's kind.
func FromRows(columns []string, rows [][]Value) (*Table, error) {
	cols := make([]*Series, len(columns))
	for j, name := range columns {
		vals := make([]Value, len(rows))
		for i, r := range rows {
			if len(r) != len(columns) {
				return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), len(columns))
			}
			vals[i] = r[j]
		}
		cols[j] = ValueSeries(name, vals)
	}
	return NewTable(cols...)
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.series))
	for i, s := range t.series {
		out[i] = s.name
	}
	return out
}

// Has reports whether the named column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Series returns the named column.
func (t *Table) Series(name string) (*Series, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return t.series[i], nil
}

// Row returns a copy of the i-th record.
func (t *Table) Row(i int) []Value {
	out := make([]Value, len(t.series))
	for j, s := range t.series {
		out[j] = s.At(i)
	}
	return out
}

// Select projects the table onto the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Series, 0, len(names))
	for _, n := range names {
		s, err := t.Series(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	return NewTable(cols...)
}

// Rename returns a table whose columns are renamed according to m. Names not
// in m are kept.
func (t *Table) Rename(m map[string]string) (*Table, error) {
	cols := make([]*Series, len(t.series))
	for i, s := range t.series {
		if to, ok := m[s.name]; ok {
			cols[i] = s.Renamed(to)
		} else {
			cols[i] = s
		}
	}
	return NewTable(cols...)
}

// Head returns the first n rows in original order, or the whole table when it
// has fewer rows. This is deterministic-by-input-order sampling: any view built
// on it inherits whatever ordering the source file has.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n >= t.rows {
		return t
	}
	cols := make([]*Series, len(t.series))
	for i, s := range t.series {
		cols[i] = s.head(n)
	}
	out, _ := NewTable(cols...)
	return out
}

// WithSeries returns a table with s replacing the column of the same name, or
// appended when no such column exists.
func (t *Table) WithSeries(s *Series) (*Table, error) {
	if s.Len() != t.rows && len(t.series) > 0 {
		return nil, fmt.Errorf("column %q has %d rows, want %d", s.name, s.Len(), t.rows)
	}
	cols := make([]*Series, len(t.series), len(t.series)+1)
	copy(cols, t.series)
	if i, ok := t.index[s.name]; ok {
		cols[i] = s
	} else {
		cols = append(cols, s)
	}
	return NewTable(cols...)
}
