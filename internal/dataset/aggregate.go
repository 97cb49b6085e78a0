package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CountColumn is the name of the optional group-size column.
const CountColumn = "count"

// Group is one distinct grouping-key combination and its per-column means.
type Group struct {
	Key   []Value
	Size  int
	Means []Value // null when the group has no numeric cell for that column
}

// Grouped is the result of GroupMean.
type Grouped struct {
	keys   []string
	values []string
	groups []Group
}

// GroupMean groups t by the key columns and averages each value column within
// every observed key combination. Rows with a null key cell are dropped;
// missing or non-numeric value cells are excluded from a column's mean. Groups are ordered ascending by key tuple.
func GroupMean(t *Table, keys, values []string) (*Grouped, error) {
	if len(keys) == 0 {
		return nil, errors.New("group mean: at least one key column is required")
	}
	keyCols := make([]*Series, len(keys))
	for i, k := range keys {
		s, err := t.Series(k)
		if err != nil {
			return nil, fmt.Errorf("group mean: %w", err)
		}
		keyCols[i] = s
	}
	valCols := make([][]float64, len(values))
	for i, v := range values {
		s, err := t.Series(v)
		if err != nil {
			return nil, fmt.Errorf("group mean: %w", err)
		}
		valCols[i] = s.Floats()
	}

	type acc struct {
		key  []Value
		size int
		obs  [][]float64
	}
	byKey := make(map[string]*acc)
	var order []*acc
	var sb strings.Builder
	key := make([]Value, len(keys))
rows:
	for row := 0; row < t.Len(); row++ {
		sb.Reset()
		for i, s := range keyCols {
			key[i] = s.At(row)
			// Rows with a missing key belong to no group.
			if key[i].IsNull() {
				continue rows
			}
			writeKey(&sb, key[i])
		}
		a := byKey[sb.String()]
		if a == nil {
			a = &acc{key: append([]Value(nil), key...), obs: make([][]float64, len(values))}
			byKey[sb.String()] = a
			order = append(order, a)
		}
		a.size++
		for j, col := range valCols {
			if x := col[row]; !math.IsNaN(x) {
				a.obs[j] = append(a.obs[j], x)
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return CompareTuple(order[i].key, order[j].key) < 0
	})
	g := &Grouped{
		keys:   append([]string(nil), keys...),
		values: append([]string(nil), values...),
		groups: make([]Group, len(order)),
	}
	for i, a := range order {
		means := make([]Value, len(values))
		for j, xs := range a.obs {
			if len(xs) > 0 {
				means[j] = Number(stat.Mean(xs, nil))
			}
		}
		g.groups[i] = Group{Key: a.key, Size: a.size, Means: means}
	}
	return g, nil
}

// writeKey appends an unambiguous encoding of v for use as a map key.
func writeKey(sb *strings.Builder, v Value) {
	sb.WriteByte(byte('0' + v.kind))
	switch v.kind {
	case KindNumber:
		f := v.num
		if f == 0 {
			f = 0 // fold -0 into +0
		}
		sb.WriteString(strconv.FormatUint(math.Float64bits(f), 16))
	case KindString:
		sb.WriteString(strconv.Itoa(len(v.str)))
		sb.WriteByte(':')
		sb.WriteString(v.str)
	}
	sb.WriteByte(0)
}

func (g *Grouped) Keys() []string   { return append([]string(nil), g.keys...) }
func (g *Grouped) Values() []string { return append([]string(nil), g.values...) }
func (g *Grouped) Len() int         { return len(g.groups) }

// Groups returns the groups in key order.
func (g *Grouped) Groups() []Group { return append([]Group(nil), g.groups...) }

// Table materializes the groups as key columns followed by mean columns, and a
// trailing CountColumn when withCount is set.
func (g *Grouped) Table(withCount bool) (*Table, error) {
	names := append(g.Keys(), g.values...)
	if withCount {
		names = append(names, CountColumn)
	}
	rows := make([][]Value, len(g.groups))
	for i, grp := range g.groups {
		row := make([]Value, 0, len(names))
		row = append(row, grp.Key...)
		row = append(row, grp.Means...)
		if withCount {
			row = append(row, Number(float64(grp.Size)))
		}
		rows[i] = row
	}
	return FromRows(names, rows)
}
