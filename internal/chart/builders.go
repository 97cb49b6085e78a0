package chart

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/habitdash/internal/dataset"
)

// SunburstSpec configures a hierarchical proportion chart.
type SunburstSpec struct {
	Common
	// Path lists the hierarchy levels from the root outward.
	Path []string
	// Color names the path level whose categories pick the node colors.
	Color  string
	Colors []string
}

// Sunburst counts rows per path prefix and emits one node per observed prefix.
// Rows with a null cell anywhere on the path are skipped.
func Sunburst(t *dataset.Table, spec SunburstSpec) (Figure, error) {
	if len(spec.Path) == 0 {
		return Figure{}, fmt.Errorf("chart: sunburst needs at least one path column")
	}
	levels := make([]*dataset.Series, len(spec.Path))
	colorLevel := -1
	for i, name := range spec.Path {
		s, err := column(t, name)
		if err != nil {
			return Figure{}, err
		}
		levels[i] = s
		if name == spec.Color {
			colorLevel = i
		}
	}
	if spec.Color != "" && colorLevel < 0 {
		return Figure{}, fmt.Errorf("chart: sunburst color %q is not a path column", spec.Color)
	}

	type node struct {
		id, label, parent string
		count             int
		colorKey          string
	}
	nodes := map[string]*node{}
	colorIndex := map[string]int{}
rows:
	for row := 0; row < t.Len(); row++ {
		// A null path cell would leave its children without a parent.
		for _, s := range levels {
			if s.At(row).IsNull() {
				continue rows
			}
		}
		parent := ""
		colorKey := ""
		for lvl, s := range levels {
			label := s.At(row).String()
			if lvl == colorLevel {
				colorKey = label
				if _, ok := colorIndex[label]; !ok {
					colorIndex[label] = len(colorIndex)
				}
			}
			id := label
			if parent != "" {
				id = parent + "/" + label
			}
			n := nodes[id]
			if n == nil {
				n = &node{id: id, label: label, parent: parent}
				nodes[id] = n
			}
			if lvl >= colorLevel {
				n.colorKey = colorKey
			}
			n.count++
			parent = id
		}
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var (
		outIDs, labels, parents, colors []string
		values                          []int
	)
	for _, id := range ids {
		n := nodes[id]
		outIDs = append(outIDs, n.id)
		labels = append(labels, n.label)
		parents = append(parents, n.parent)
		values = append(values, n.count)
		c := ""
		if n.colorKey != "" {
			c = pick(spec.Colors, colorIndex[n.colorKey])
		}
		colors = append(colors, c)
	}
	trace := Trace{
		"type":         "sunburst",
		"ids":          outIDs,
		"labels":       labels,
		"parents":      parents,
		"values":       values,
		"branchvalues": "total",
		"marker":       map[string]any{"colors": colors},
		"hovertemplate": strings.Join([]string{
			"%{label}", "count=%{value}", "%{percentParent:.1%} of %{parent}",
		}, "<br>") + "<extra></extra>",
	}
	return Figure{ID: spec.ID, Title: spec.Title, Data: []Trace{trace}, Layout: spec.layout()}, nil
}

// XYSpec configures box and line charts.
type XYSpec struct {
	Common
	X, Y    string
	Colors  []string
	Markers bool
}

func xyLayout(spec XYSpec) Layout {
	l := spec.layout()
	l["xaxis"] = axisTitle(spec.label(spec.X))
	l["yaxis"] = axisTitle(spec.label(spec.Y))
	return l
}

// Box draws the distribution of Y for every X.
func Box(t *dataset.Table, spec XYSpec) (Figure, error) {
	x, err := column(t, spec.X)
	if err != nil {
		return Figure{}, err
	}
	y, err := numericColumn(t, spec.Y)
	if err != nil {
		return Figure{}, err
	}
	trace := Trace{
		"type":   "box",
		"x":      x.Interfaces(),
		"y":      y.Interfaces(),
		"marker": map[string]any{"color": pick(spec.Colors, 0)},
	}
	return Figure{ID: spec.ID, Title: spec.Title, Data: []Trace{trace}, Layout: xyLayout(spec)}, nil
}

// Line connects Y over X in row order.
func Line(t *dataset.Table, spec XYSpec) (Figure, error) {
	x, err := column(t, spec.X)
	if err != nil {
		return Figure{}, err
	}
	y, err := numericColumn(t, spec.Y)
	if err != nil {
		return Figure{}, err
	}
	mode := "lines"
	if spec.Markers {
		mode = "lines+markers"
	}
	trace := Trace{
		"type": "scatter",
		"mode": mode,
		"x":    x.Interfaces(),
		"y":    y.Interfaces(),
		"line": map[string]any{"color": pick(spec.Colors, 0)},
	}
	return Figure{ID: spec.ID, Title: spec.Title, Data: []Trace{trace}, Layout: xyLayout(spec)}, nil
}

// StripSpec configures a jittered categorical scatter.
type StripSpec struct {
	Common
	X, Y, Color string
	// Orientation is "h" (categories on Y) or "v".
	Orientation string
	Colors      []string
}

// Strip draws every row as a jittered point, one trace per Color category.
func Strip(t *dataset.Table, spec StripSpec) (Figure, error) {
	x, err := column(t, spec.X)
	if err != nil {
		return Figure{}, err
	}
	y, err := column(t, spec.Y)
	if err != nil {
		return Figure{}, err
	}
	colorCol, err := column(t, spec.Color)
	if err != nil {
		return Figure{}, err
	}
	orientation := spec.Orientation
	if orientation == "" {
		orientation = "v"
	}

	cats := distinct(colorCol)
	traces := make([]Trace, 0, len(cats))
	for i, cat := range cats {
		var xs, ys []any
		for row := 0; row < t.Len(); row++ {
			if colorCol.At(row).String() != cat {
				continue
			}
			xs = append(xs, x.At(row).Interface())
			ys = append(ys, y.At(row).Interface())
		}
		traces = append(traces, Trace{
			"type":        "box",
			"name":        cat,
			"legendgroup": cat,
			"orientation": orientation,
			"x":           xs,
			"y":           ys,
			"boxpoints":   "all",
			"jitter":      1,
			"pointpos":    0,
			"hoveron":     "points",
			"fillcolor":   "rgba(255,255,255,0)",
			"line":        map[string]any{"color": "rgba(255,255,255,0)"},
			"marker":      map[string]any{"color": pick(spec.Colors, i)},
		})
	}
	l := spec.layout()
	l["xaxis"] = axisTitle(spec.label(spec.X))
	l["yaxis"] = axisTitle(spec.label(spec.Y))
	l["legend"] = map[string]any{"title": map[string]any{"text": spec.label(spec.Color)}}
	l["boxmode"] = "group"
	return Figure{ID: spec.ID, Title: spec.Title, Data: traces, Layout: l}, nil
}

// DimensionsSpec configures parallel-coordinates and scatter-matrix charts.
type DimensionsSpec struct {
	Common
	// Dimensions defaults to every column of the table.
	Dimensions []string
	Color      string
	Colorscale Colorscale
}

func dimensions(t *dataset.Table, spec DimensionsSpec) ([]map[string]any, error) {
	names := spec.Dimensions
	if len(names) == 0 {
		names = t.Columns()
	}
	dims := make([]map[string]any, 0, len(names))
	for _, n := range names {
		s, err := numericColumn(t, n)
		if err != nil {
			return nil, err
		}
		dims = append(dims, map[string]any{"label": spec.label(n), "values": s.Interfaces()})
	}
	return dims, nil
}

func colorAxis(t *dataset.Table, spec DimensionsSpec) (map[string]any, error) {
	c, err := numericColumn(t, spec.Color)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"color":      c.Interfaces(),
		"colorscale": spec.Colorscale,
		"showscale":  true,
		"colorbar":   map[string]any{"title": map[string]any{"text": spec.label(spec.Color)}},
	}, nil
}

// ParallelCoordinates draws one polyline per row across the dimensions,
// colored by a numeric column.
func ParallelCoordinates(t *dataset.Table, spec DimensionsSpec) (Figure, error) {
	dims, err := dimensions(t, spec)
	if err != nil {
		return Figure{}, err
	}
	line, err := colorAxis(t, spec)
	if err != nil {
		return Figure{}, err
	}
	trace := Trace{"type": "parcoords", "dimensions": dims, "line": line}
	return Figure{ID: spec.ID, Title: spec.Title, Data: []Trace{trace}, Layout: spec.layout()}, nil
}

// ScatterMatrix draws pairwise scatter plots of the dimensions.
func ScatterMatrix(t *dataset.Table, spec DimensionsSpec) (Figure, error) {
	dims, err := dimensions(t, spec)
	if err != nil {
		return Figure{}, err
	}
	marker, err := colorAxis(t, spec)
	if err != nil {
		return Figure{}, err
	}
	marker["size"] = 5
	trace := Trace{
		"type":       "splom",
		"dimensions": dims,
		"marker":     marker,
		"diagonal":   map[string]any{"visible": true},
	}
	return Figure{ID: spec.ID, Title: spec.Title, Data: []Trace{trace}, Layout: spec.layout()}, nil
}
