package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of the survey file.
const (
	ColSex             = "sex"
	ColAge             = "age"
	ColSBP             = "SBP"
	ColDBP             = "DBP"
	ColSGOTAST         = "SGOT_AST"
	ColSGOTALT         = "SGOT_ALT"
	ColGammaGTP        = "gamma_GTP"
	ColSerumCreatinine = "serum_creatinine"
	ColTotChole        = "tot_chole"
	ColHDLChole        = "HDL_chole"
	ColLDLChole        = "LDL_chole"
	ColSmoking         = "SMK_stat_type_cd"
	ColDrinking        = "DRK_YN"
)

// RequiredColumns is the fixed column set the loader insists on.
var RequiredColumns = []string{
	ColSex, ColAge, ColSBP, ColDBP, ColSGOTAST, ColSGOTALT, ColGammaGTP,
	ColSerumCreatinine, ColTotChole, ColHDLChole, ColLDLChole, ColSmoking, ColDrinking,
}

// columnTypes pins the parsed type of every required column; any other column
// in the file is type-detected.
var columnTypes = map[string]series.Type{
	ColSex:             series.String,
	ColDrinking:        series.String,
	ColAge:             series.Float,
	ColSBP:             series.Float,
	ColDBP:             series.Float,
	ColSGOTAST:         series.Float,
	ColSGOTALT:         series.Float,
	ColGammaGTP:        series.Float,
	ColSerumCreatinine: series.Float,
	ColTotChole:        series.Float,
	ColHDLChole:        series.Float,
	ColLDLChole:        series.Float,
	ColSmoking:         series.Float,
}

var nanValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// MissingColumnsError reports required columns absent from the input file.
type MissingColumnsError struct {
	Source  string
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// Load reads the survey CSV at path. A missing file or missing columns is an
// error; there is no degraded mode.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// Read parses survey records from r. source names the input in errors.
func Read(r io.Reader, source string) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(columnTypes),
		dataframe.NaNValues(nanValues),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read %s: %w", source, df.Err)
	}

	names := df.Names()
	have := make(map[string]bool, len(names))
	for _, n := range names {
		have[n] = true
	}
	var missing []string
	for _, n := range RequiredColumns {
		if !have[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &MissingColumnsError{Source: source, Missing: missing}
	}

	cols := make([]*Series, 0, len(names))
	for _, n := range names {
		cols = append(cols, fromGota(n, df.Col(n)))
	}
	t, err := NewTable(cols...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return t, nil
}

func fromGota(name string, s series.Series) *Series {
	switch s.Type() {
	case series.Float, series.Int:
		return &Series{name: name, kind: KindNumber, nums: s.Float()}
	default:
		recs := s.Records()
		for i, isNaN := range s.IsNaN() {
			if isNaN {
				recs[i] = ""
			}
		}
		return &Series{name: name, kind: KindString, strs: recs}
	}
}
