// Package dashboard precomputes the four chart groups shown by the web
// dashboard from a loaded survey table.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/habitdash/internal/chart"
	"github.com/KaramelBytes/habitdash/internal/dataset"
)

// Title is the page heading.
const Title = "Smoking and drinking influence"

// GroupID identifies a toggleable chart group.
type GroupID string

const (
	Respondents GroupID = "respondents"
	Pressure    GroupID = "pressure"
	Cholesterol GroupID = "cholesterol"
	Organs      GroupID = "organs"
)

// Order is the fixed render order of the groups.
var Order = []GroupID{Respondents, Pressure, Cholesterol, Organs}

// ErrUnknownGroup is returned for ids outside Order.
var ErrUnknownGroup = errors.New("unknown chart group")

// ParseGroupID validates s.
func ParseGroupID(s string) (GroupID, error) {
	for _, id := range Order {
		if string(id) == s {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGroup, s)
}

// Group is one sidebar trigger and the content it reveals.
type Group struct {
	ID        GroupID
	Button    string
	Subheader string
	Figures   []chart.Figure
	// Summary is only set for the respondents group.
	Summary *dataset.Table
}

// Limits caps how many leading rows feed the row-heavy charts.
type Limits struct {
	BoxRows      int `mapstructure:"box_rows" yaml:"box_rows"`
	SBPRows      int `mapstructure:"sbp_rows" yaml:"sbp_rows"`
	DBPRows      int `mapstructure:"dbp_rows" yaml:"dbp_rows"`
	SexCholeRows int `mapstructure:"sex_chole_rows" yaml:"sex_chole_rows"`
	SmkCholeRows int `mapstructure:"smk_chole_rows" yaml:"smk_chole_rows"`
	OrgansRows   int `mapstructure:"organs_rows" yaml:"organs_rows"`
}

// DefaultLimits returns the stock sampling limits.
func DefaultLimits() Limits {
	return Limits{
		BoxRows:      10000,
		SBPRows:      100000,
		DBPRows:      10000,
		SexCholeRows: 200,
		SmkCholeRows: 500,
		OrgansRows:   500,
	}
}

// Options tunes Build.
type Options struct {
	// Limits defaults to DefaultLimits when zero.
	Limits Limits
	// Source is recorded for display only.
	Source string
}

// Dashboard is the immutable, precomputed page content.
type Dashboard struct {
	BuildID uuid.UUID
	BuiltAt time.Time
	Title   string
	Source  string
	Rows    int
	groups  map[GroupID]*Group
}

// Group returns the group with the given id.
func (d *Dashboard) Group(id GroupID) (*Group, error) {
	g, ok := d.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, id)
	}
	return g, nil
}

// Groups returns every group in render order.
func (d *Dashboard) Groups() []*Group {
	out := make([]*Group, 0, len(Order))
	for _, id := range Order {
		out = append(out, d.groups[id])
	}
	return out
}

// Active returns the groups switched on in t, in render order.
func (d *Dashboard) Active(t Toggles) []*Group {
	var out []*Group
	for _, id := range Order {
		if t[id] {
			out = append(out, d.groups[id])
		}
	}
	return out
}

// Build runs the pipeline on raw and assembles every group. It fails on the
// first stage error so that a bad dataset is rejected at startup.
func Build(raw *dataset.Table, opt Options) (*Dashboard, error) {
	if opt.Limits == (Limits{}) {
		opt.Limits = DefaultLimits()
	}
	labeled, err := Recode(raw)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		BuildID: uuid.New(),
		BuiltAt: time.Now(),
		Title:   Title,
		Source:  opt.Source,
		Rows:    raw.Len(),
		groups:  make(map[GroupID]*Group, len(Order)),
	}
	builders := map[GroupID]func(*dataset.Table, Limits) (*Group, error){
		Respondents: respondents,
		Pressure:    pressure,
		Cholesterol: cholesterol,
		Organs:      organs,
	}
	for _, id := range Order {
		g, err := builders[id](labeled, opt.Limits)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", id, err)
		}
		d.groups[id] = g
	}
	return d, nil
}

var smokingLabels = map[string]string{dataset.ColSmoking: "smoking state"}

func respondents(labeled *dataset.Table, _ Limits) (*Group, error) {
	sunburst, err := chart.Sunburst(labeled, chart.SunburstSpec{
		Common: chart.Common{
			ID:     "respondents-sunburst",
			Title:  "Proportion of smoking and drinking people among women and men",
			Width:  600,
			Height: 600,
		},
		Path:   []string{dataset.ColSex, dataset.ColSmoking, dataset.ColDrinking},
		Color:  dataset.ColSex,
		Colors: []string{chart.Pink, chart.Violet},
	})
	if err != nil {
		return nil, err
	}
	summary, err := Summary(labeled)
	if err != nil {
		return nil, err
	}
	return &Group{
		ID:        Respondents,
		Button:    "Smokers and drinkers",
		Subheader: "Proportion of smoking and drinking people",
		Figures:   []chart.Figure{sunburst},
		Summary:   summary,
	}, nil
}

func pressure(labeled *dataset.Table, lim Limits) (*Group, error) {
	box, err := chart.Box(labeled.Head(lim.BoxRows), chart.XYSpec{
		Common: chart.Common{ID: "pressure-alt-box", Title: "Average SGOT ALT in each age group (zoom for details)"},
		X:      dataset.ColAge,
		Y:      dataset.ColSGOTALT,
		Colors: []string{chart.Violet},
	})
	if err != nil {
		return nil, err
	}
	ast, err := MeanByAge(labeled, dataset.ColSGOTAST)
	if err != nil {
		return nil, err
	}
	line, err := chart.Line(ast, chart.XYSpec{
		Common:  chart.Common{ID: "pressure-ast-line", Title: "Change of average SGOT AST between each age group"},
		X:       dataset.ColAge,
		Y:       dataset.ColSGOTAST,
		Colors:  []string{chart.Violet},
		Markers: true,
	})
	if err != nil {
		return nil, err
	}
	sbp, err := chart.Strip(labeled.Head(lim.SBPRows), chart.StripSpec{
		Common: chart.Common{
			ID:     "pressure-sbp-strip",
			Title:  "Distribution of men and women's systolic blood pressure depending on their smoking state",
			Labels: smokingLabels,
		},
		X:           dataset.ColSBP,
		Y:           dataset.ColSmoking,
		Color:       dataset.ColSex,
		Orientation: "h",
		Colors:      []string{chart.Violet, chart.Pink},
	})
	if err != nil {
		return nil, err
	}
	dbp, err := chart.Strip(labeled.Head(lim.DBPRows), chart.StripSpec{
		Common: chart.Common{
			ID:     "pressure-dbp-strip",
			Title:  "Distribution of men and women's diastolic blood pressure depending on their smoking state",
			Labels: smokingLabels,
		},
		X:           dataset.ColDBP,
		Y:           dataset.ColSmoking,
		Color:       dataset.ColSex,
		Orientation: "h",
		Colors:      []string{chart.Violet, chart.Pink},
	})
	if err != nil {
		return nil, err
	}
	return &Group{
		ID:        Pressure,
		Button:    "Blood pressure",
		Subheader: "Influence of smoking on pressure",
		Figures:   []chart.Figure{box, line, sbp, dbp},
	}, nil
}

func cholesterol(labeled *dataset.Table, lim Limits) (*Group, error) {
	bySex, err := CholesterolBySex(labeled)
	if err != nil {
		return nil, err
	}
	sexFig, err := chart.ParallelCoordinates(bySex.Head(lim.SexCholeRows), chart.DimensionsSpec{
		Common: chart.Common{
			ID:    "cholesterol-sex",
			Title: "Correlation between sex, age and cholesterol",
			Labels: map[string]string{
				dataset.ColSex:      "Sex",
				dataset.ColAge:      "Age",
				dataset.ColTotChole: "total cholesterol",
				dataset.ColHDLChole: "HDL cholesterol",
				dataset.ColLDLChole: "LDL cholesterol",
			},
		},
		Color:      dataset.ColSex,
		Colorscale: chart.Portland,
	})
	if err != nil {
		return nil, err
	}
	bySmoking, err := CholesterolBySmoking(labeled)
	if err != nil {
		return nil, err
	}
	smkFig, err := chart.ParallelCoordinates(bySmoking.Head(lim.SmkCholeRows), chart.DimensionsSpec{
		Common: chart.Common{
			ID:    "cholesterol-smoking",
			Title: "Correlation between smoking, age and cholesterol",
			Labels: map[string]string{
				dataset.ColSmoking:  "Smoking state",
				dataset.ColAge:      "Age",
				dataset.ColTotChole: "Total cholesterol",
				dataset.ColHDLChole: "HDL cholesterol",
				dataset.ColLDLChole: "LDL cholesterol",
			},
		},
		Color:      dataset.ColSmoking,
		Colorscale: chart.Viridis,
	})
	if err != nil {
		return nil, err
	}
	return &Group{
		ID:        Cholesterol,
		Button:    "Cholesterol",
		Subheader: "Influence of smoking on cholesterol",
		Figures:   []chart.Figure{sexFig, smkFig},
	}, nil
}

func organs(labeled *dataset.Table, lim Limits) (*Group, error) {
	markers, err := OrganMarkers(labeled)
	if err != nil {
		return nil, err
	}
	fig, err := chart.ScatterMatrix(markers.Head(lim.OrgansRows), chart.DimensionsSpec{
		Common: chart.Common{
			ID:     "organs-matrix",
			Title:  "Correlation between indicators of liver and kidney function",
			Height: 700,
		},
		Dimensions: []string{LabelSGOTAST, LabelSGOTALT, LabelGammaGTP, LabelSerumCreatinine},
		Color:      LabelSmokingState,
		Colorscale: chart.Plasma,
	})
	if err != nil {
		return nil, err
	}
	return &Group{
		ID:        Organs,
		Button:    "Influence of smoking on organs",
		Subheader: "Correlations between four parameters",
		Figures:   []chart.Figure{fig},
	}, nil
}
