package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const surveyHeader = "sex,age,height,SBP,DBP,SGOT_AST,SGOT_ALT,gamma_GTP,serum_creatinine,tot_chole,HDL_chole,LDL_chole,SMK_stat_type_cd,DRK_YN"

var surveyRows = []string{
	"Male,35,170,120.0,80.0,21.0,35.0,40.0,1.0,193.0,48.0,126.0,1.0,Y",
	"Male,30,180,130.0,82.0,20.0,36.0,27.0,0.9,228.0,55.0,148.0,3.0,N",
	"Female,40,165,120.0,70.0,47.0,32.0,68.0,0.8,136.0,41.0,74.0,1.0,N",
	"Female,50,155,145.0,87.0,29.0,34.0,18.0,0.6,201.0,76.0,104.0,2.0,Y",
	"Male,50,175,138.0,82.0,19.0,12.0,25.0,1.1,199.0,61.0,117.0,1.0,",
}

func writeSurvey(t *testing.T, header string, rows ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "survey.csv")
	body := header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	tbl, err := Load(writeSurvey(t, surveyHeader, surveyRows...))
	require.NoError(t, err)

	assert.Equal(t, 5, tbl.Len())
	assert.True(t, tbl.Has("height"), "extra columns are carried")
	for _, c := range RequiredColumns {
		assert.True(t, tbl.Has(c), c)
	}

	smk, err := tbl.Series(ColSmoking)
	require.NoError(t, err)
	assert.Equal(t, KindNumber, smk.Kind())
	assert.Equal(t, []float64{1, 3, 1, 2, 1}, smk.Floats())

	drk, err := tbl.Series(ColDrinking)
	require.NoError(t, err)
	assert.Equal(t, KindString, drk.Kind())
	assert.True(t, drk.At(4).IsNull(), "empty DRK_YN is null")
	assert.Equal(t, "Y", drk.At(0).Str())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadMissingColumns(t *testing.T) {
	header := "sex,age,SBP,DBP,SGOT_AST,SGOT_ALT,gamma_GTP,serum_creatinine,tot_chole,HDL_chole,LDL_chole"
	p := writeSurvey(t, header, "Male,35,120,80,21,35,40,1.0,193,48,126")

	_, err := Load(p)
	require.Error(t, err)
	var mc *MissingColumnsError
	require.True(t, errors.As(err, &mc))
	assert.Equal(t, []string{ColDrinking, ColSmoking}, mc.Missing)
	assert.Contains(t, err.Error(), "survey.csv")
}

func TestHead(t *testing.T) {
	tbl := mustTable(t, []string{"n"}, [][]Value{{Number(1)}, {Number(2)}, {Number(3)}})

	all := tbl.Head(10)
	assert.Equal(t, 3, all.Len())
	for i := 0; i < 3; i++ {
		assert.Equal(t, tbl.Row(i), all.Row(i))
	}

	two := tbl.Head(2)
	assert.Equal(t, 2, two.Len())
	assert.Equal(t, Number(2), two.Row(1)[0])
	assert.Equal(t, 3, tbl.Len(), "source untouched")

	assert.Equal(t, 0, tbl.Head(-1).Len())
}

func TestSelectRenameWithSeries(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b", "c"}, [][]Value{
		{Number(1), String("x"), Number(10)},
		{Number(2), String("y"), Number(20)},
	})

	sel, err := tbl.Select("c", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Columns())

	_, err = tbl.Select("nope")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	ren, err := tbl.Rename(map[string]string{"a": "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "b", "c"}, ren.Columns())
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Columns())

	repl, err := tbl.WithSeries(StringSeries("a", []string{"one", "two"}))
	require.NoError(t, err)
	assert.Equal(t, String("one"), repl.Row(0)[0])
	assert.Equal(t, Number(1), tbl.Row(0)[0], "source untouched")

	_, err = tbl.WithSeries(NumberSeries("d", []float64{1}))
	assert.Error(t, err)
}

func TestValueCompare(t *testing.T) {
	assert.Equal(t, -1, Compare(Null(), Number(0)))
	assert.Equal(t, -1, Compare(Number(9), Number(10)))
	assert.Equal(t, -1, Compare(Number(100), String("a")))
	assert.Equal(t, 1, Compare(String("b"), String("a")))
	assert.Equal(t, 0, Compare(String("a"), String("a")))
	assert.True(t, Number(nan()).IsNull())
	assert.True(t, String("").IsNull())

	n, ok := Number(3).Int()
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	_, ok = Number(2.5).Int()
	assert.False(t, ok)
}

func mustTable(t *testing.T, cols []string, rows [][]Value) *Table {
	t.Helper()
	tbl, err := FromRows(cols, rows)
	require.NoError(t, err)
	return tbl
}
