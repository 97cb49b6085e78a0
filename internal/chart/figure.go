// Package chart turns derived tables into Plotly figure specifications. The
// browser-side Plotly.js renderer consumes the JSON form of a Figure.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/KaramelBytes/habitdash/internal/dataset"
)

// ErrNotNumeric is returned when a channel that needs numbers is bound to a
// string column.
var ErrNotNumeric = errors.New("column is not numeric")

// Trace is one Plotly trace object.
type Trace map[string]any

// Layout is a Plotly layout object.
type Layout map[string]any

// Figure is a renderable chart.
type Figure struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// JSON returns the Plotly payload ({"data":..., "layout":...}).
func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(struct {
		Data   []Trace `json:"data"`
		Layout Layout  `json:"layout"`
	}{f.Data, f.Layout})
}

// Common carries options shared by every builder.
type Common struct {
	ID     string
	Title  string
	Width  int
	Height int
	// Labels overrides axis and legend titles by column name.
	Labels map[string]string
}

func (c Common) label(col string) string {
	if l, ok := c.Labels[col]; ok {
		return l
	}
	return col
}

func (c Common) layout() Layout {
	l := Layout{"title": map[string]any{"text": c.Title}}
	if c.Width > 0 {
		l["width"] = c.Width
	}
	if c.Height > 0 {
		l["height"] = c.Height
	}
	return l
}

func axisTitle(text string) map[string]any {
	return map[string]any{"title": map[string]any{"text": text}}
}

func column(t *dataset.Table, name string) (*dataset.Series, error) {
	s, err := t.Series(name)
	if err != nil {
		return nil, fmt.Errorf("chart: %w", err)
	}
	return s, nil
}

func numericColumn(t *dataset.Table, name string) (*dataset.Series, error) {
	s, err := column(t, name)
	if err != nil {
		return nil, err
	}
	if s.Kind() != dataset.KindNumber {
		return nil, fmt.Errorf("chart: %w: %q", ErrNotNumeric, name)
	}
	return s, nil
}

// distinct returns the non-null values of s in order of first appearance.
func distinct(s *dataset.Series) []string {
	seen := map[string]bool{}
	var out []string
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v.IsNull() {
			continue
		}
		k := v.String()
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

func pick(colors []string, i int) string {
	if len(colors) == 0 {
		return ""
	}
	return colors[i%len(colors)]
}
