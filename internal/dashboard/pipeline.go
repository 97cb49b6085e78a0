package dashboard

import (
	"fmt"

	"github.com/KaramelBytes/habitdash/internal/category"
	"github.com/KaramelBytes/habitdash/internal/dataset"
)

// Column names introduced by the pipeline.
const (
	ColAverageAge = "average age"
)

// Recode replaces the raw smoking codes and drinking flags with display
// labels. Smoking codes must be whole numbers; anything else is a
// precondition violation reported as an error.
func Recode(raw *dataset.Table) (*dataset.Table, error) {
	smk, err := raw.Series(dataset.ColSmoking)
	if err != nil {
		return nil, err
	}
	codes := make([]int, smk.Len())
	for i := range codes {
		c, ok := smk.At(i).Int()
		if !ok {
			return nil, fmt.Errorf("recode %s: row %d: %q is not an integer code", dataset.ColSmoking, i+1, smk.At(i).String())
		}
		codes[i] = c
	}
	drk, err := raw.Series(dataset.ColDrinking)
	if err != nil {
		return nil, err
	}

	out, err := raw.WithSeries(dataset.StringSeries(dataset.ColSmoking, category.SmokingLabel.Apply(codes)))
	if err != nil {
		return nil, err
	}
	return out.WithSeries(dataset.StringSeries(dataset.ColDrinking, category.DrinkingLabel.Apply(drk.Strings())))
}

// encode returns t with the string column col re-encoded as integers.
func encode(t *dataset.Table, col string, m category.Mapping[string, int]) (*dataset.Table, error) {
	s, err := t.Series(col)
	if err != nil {
		return nil, err
	}
	codes := m.Apply(s.Strings())
	vals := make([]float64, len(codes))
	for i, c := range codes {
		vals[i] = float64(c)
	}
	return t.WithSeries(dataset.NumberSeries(col, vals))
}

// Summary averages age per (sex, smoking, drinking) combination of a recoded
// table. The result carries an "average age" column and the group sizes.
func Summary(labeled *dataset.Table) (*dataset.Table, error) {
	keys := []string{dataset.ColSex, dataset.ColSmoking, dataset.ColDrinking}
	view, err := labeled.Select(dataset.ColAge, dataset.ColSex, dataset.ColSmoking, dataset.ColDrinking)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	view, err = view.Rename(map[string]string{dataset.ColAge: ColAverageAge})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	g, err := dataset.GroupMean(view, keys, []string{ColAverageAge})
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return g.Table(true)
}

// MeanByAge averages col per age.
func MeanByAge(labeled *dataset.Table, col string) (*dataset.Table, error) {
	view, err := labeled.Select(dataset.ColAge, col)
	if err != nil {
		return nil, err
	}
	g, err := dataset.GroupMean(view, []string{dataset.ColAge}, []string{col})
	if err != nil {
		return nil, err
	}
	return g.Table(false)
}

var cholesterolColumns = []string{dataset.ColAge, dataset.ColTotChole, dataset.ColHDLChole, dataset.ColLDLChole}

// CholesterolBySex selects sex, age and cholesterol with sex encoded 0/1.
func CholesterolBySex(labeled *dataset.Table) (*dataset.Table, error) {
	view, err := labeled.Select(append([]string{dataset.ColSex}, cholesterolColumns...)...)
	if err != nil {
		return nil, err
	}
	return encode(view, dataset.ColSex, category.SexCode)
}

// CholesterolBySmoking selects smoking, age and cholesterol with smoking
// re-encoded as 1/2/3.
func CholesterolBySmoking(labeled *dataset.Table) (*dataset.Table, error) {
	view, err := labeled.Select(append([]string{dataset.ColSmoking}, cholesterolColumns...)...)
	if err != nil {
		return nil, err
	}
	return encode(view, dataset.ColSmoking, category.SmokingCode)
}

// Organ-function column labels.
const (
	LabelSGOTAST         = "SGOT AST"
	LabelSGOTALT         = "SGOT ALT"
	LabelGammaGTP        = "gamma GTP"
	LabelSerumCreatinine = "serum creatinine"
	LabelSmokingState    = "smoking state"
)

// OrganMarkers selects the liver and kidney markers plus the smoking code,
// renamed for display.
func OrganMarkers(labeled *dataset.Table) (*dataset.Table, error) {
	view, err := labeled.Select(dataset.ColSGOTAST, dataset.ColSGOTALT, dataset.ColGammaGTP, dataset.ColSmoking, dataset.ColSerumCreatinine)
	if err != nil {
		return nil, err
	}
	view, err = encode(view, dataset.ColSmoking, category.SmokingCode)
	if err != nil {
		return nil, err
	}
	return view.Rename(map[string]string{
		dataset.ColSGOTAST:         LabelSGOTAST,
		dataset.ColSGOTALT:         LabelSGOTALT,
		dataset.ColGammaGTP:        LabelGammaGTP,
		dataset.ColSerumCreatinine: LabelSerumCreatinine,
		dataset.ColSmoking:         LabelSmokingState,
	})
}
