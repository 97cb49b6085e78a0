package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/habitdash/internal/dataset"
)

// Options controls the column profile.
type Options struct {
	// SampleRows is how many leading rows the report shows; 0 shows none.
	SampleRows int
	// GroupBy computes per-group summaries for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min, Max         float64
	Mean, Std        float64
	Q1, Median, Q3   float64
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Categorical top values
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures aggregated metrics per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Profile summarizes every column of t.
func Profile(t *dataset.Table, name string, opt Options) (*Report, error) {
	rep := &Report{Name: name, Rows: t.Len()}
	for i := 0; i < t.Len() && i < opt.SampleRows; i++ {
		row := t.Row(i)
		out := make([]string, len(row))
		for j, v := range row {
			out[j] = v.String()
		}
		rep.Samples = append(rep.Samples, out)
	}

	var numeric []*dataset.Series
	for _, col := range t.Columns() {
		s, err := t.Series(col)
		if err != nil {
			return nil, err
		}
		var cs ColumnSummary
		switch s.Kind() {
		case dataset.KindNumber:
			cs = numericSummary(s, opt)
			if cs.Kind == "numeric" {
				numeric = append(numeric, s)
			}
		default:
			cs = categoricalSummary(s)
		}
		rep.Cols = append(rep.Cols, cs)
	}

	if len(opt.GroupBy) > 0 {
		groups, err := groupSummaries(t, opt.GroupBy, numeric)
		if err != nil {
			return nil, err
		}
		if len(groups) > 20 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("showing 20 of %d groups", len(groups)))
			groups = groups[:20]
		}
		rep.Groups = groups
	}

	if opt.Correlations && len(numeric) >= 2 {
		rep.Corr = correlations(numeric)
	}
	return rep, nil
}

func present(s *dataset.Series) []float64 {
	all := s.Floats()
	out := all[:0]
	for _, v := range all {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func numericSummary(s *dataset.Series, opt Options) ColumnSummary {
	vals := present(s)
	cs := ColumnSummary{Name: s.Name(), NonNull: len(vals), Missing: s.Len() - len(vals)}
	if len(vals) == 0 {
		cs.Kind = "empty"
		return cs
	}
	cs.Kind = "numeric"
	cs.Min = floats.Min(vals)
	cs.Max = floats.Max(vals)
	if len(vals) > 1 {
		cs.Mean, cs.Std = stat.MeanStdDev(vals, nil)
	} else {
		cs.Mean = vals[0]
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	cs.Q1 = quantile(sorted, 0.25)
	cs.Median = quantile(sorted, 0.5)
	cs.Q3 = quantile(sorted, 0.75)
	cs.Unique = countUnique(sorted)

	if opt.Outliers && len(vals) >= 8 {
		median, mad := medianMAD(vals)
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		var cnt int
		maxAbsZ := 0.0
		if mad > 0 {
			for _, v := range vals {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					cnt++
				}
				if az > maxAbsZ {
					maxAbsZ = az
				}
			}
		}
		cs.OutliersCount = cnt
		cs.OutliersMaxAbsZ = maxAbsZ
		cs.OutlierThreshold = thr
	}
	return cs
}

func countUnique(sorted []float64) int {
	n := 0
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			n++
		}
	}
	return n
}

func categoricalSummary(s *dataset.Series) ColumnSummary {
	cs := ColumnSummary{Name: s.Name(), Kind: "categorical"}
	cats := map[string]int{}
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		if v.IsNull() {
			cs.Missing++
			continue
		}
		cs.NonNull++
		cats[v.String()]++
	}
	if cs.NonNull == 0 {
		cs.Kind = "empty"
		return cs
	}
	tops := make([]CategoryCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > 8 {
		tops = tops[:8]
	}
	cs.TopValues = tops
	cs.Unique = len(cats)
	return cs
}

func groupSummaries(t *dataset.Table, by []string, numeric []*dataset.Series) ([]GroupResult, error) {
	keys := make([]*dataset.Series, len(by))
	for i, name := range by {
		s, err := t.Series(name)
		if err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		keys[i] = s
	}
	type gAcc struct {
		size int
		sum  []float64
		cnt  []int
		min  []float64
		max  []float64
	}
	groups := map[string]*gAcc{}
	parts := make([]string, len(keys))
	for row := 0; row < t.Len(); row++ {
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%s", k.Name(), safeVal(k.At(row).String()))
		}
		key := strings.Join(parts, " | ")
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{
				sum: make([]float64, len(numeric)),
				cnt: make([]int, len(numeric)),
				min: make([]float64, len(numeric)),
				max: make([]float64, len(numeric)),
			}
			groups[key] = ga
		}
		ga.size++
		for j, s := range numeric {
			x, ok := s.At(row).Float()
			if !ok {
				continue
			}
			if ga.cnt[j] == 0 || x < ga.min[j] {
				ga.min[j] = x
			}
			if ga.cnt[j] == 0 || x > ga.max[j] {
				ga.max[j] = x
			}
			ga.sum[j] += x
			ga.cnt[j]++
		}
	}

	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for j, s := range numeric {
			if ga.cnt[j] == 0 {
				continue
			}
			gr.Metrics[s.Name()] = NumSummary{
				Count: ga.cnt[j],
				Min:   ga.min[j],
				Max:   ga.max[j],
				Mean:  ga.sum[j] / float64(ga.cnt[j]),
			}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	return out, nil
}

// correlations uses pairwise-complete rows for each column pair.
func correlations(cols []*dataset.Series) *CorrMatrix {
	n := len(cols)
	data := make([][]float64, n)
	names := make([]string, n)
	for i, s := range cols {
		data[i] = s.Floats()
		names[i] = s.Name()
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var xs, ys []float64
			for i := range data[a] {
				x, y := data[a][i], data[b][i]
				if math.IsNaN(x) || math.IsNaN(y) {
					continue
				}
				xs = append(xs, x)
				ys = append(ys, y)
			}
			var r float64
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			r = math.Max(-1, math.Min(1, r))
			mat[a][b], mat[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}

// Markdown renders a compact report suitable for sharing or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			b.WriteString(fmt.Sprintf("; quartiles %.4g / %.4g / %.4g", c.Q1, c.Median, c.Q3))
			if c.OutlierThreshold > 0 {
				b.WriteString(fmt.Sprintf("; outliers: %d above |z|>%.1f", c.OutliersCount, c.OutlierThreshold))
				if c.OutliersMaxAbsZ > 0 {
					b.WriteString(fmt.Sprintf(" (max |z|≈%.2f)", c.OutliersMaxAbsZ))
				}
			}
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(": top ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- %s (n=%d)\n", g.Key, g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys[:min(6, len(keys))] {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pr struct {
			A, B string
			R    float64
		}
		var pairs []pr
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				pairs = append(pairs, pr{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai := math.Abs(pairs[i].R)
			aj := math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		for _, p := range pairs[:min(10, len(pairs))] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n| ")
		for i, c := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n| ")
		for i := range r.Cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Cols {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates linearly between order statistics of sorted, the
// pandas default. gonum's stat.LinInterp places the knots differently.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
