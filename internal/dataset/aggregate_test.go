package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func TestGroupMeanSkipsMissing(t *testing.T) {
	tbl := mustTable(t, []string{"g", "v"}, [][]Value{
		{String("a"), Number(10)},
		{String("a"), Number(20)},
		{String("a"), Null()},
	})

	g, err := GroupMean(tbl, []string{"g"}, []string{"v"})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	grp := g.Groups()[0]
	assert.Equal(t, 3, grp.Size)
	assert.Equal(t, Number(15), grp.Means[0])
}

func TestGroupMeanDropsNullKeys(t *testing.T) {
	tbl := mustTable(t, []string{"age", "v"}, [][]Value{
		{Number(40), Number(1)},
		{Null(), Number(5)},
		{Number(40), Number(3)},
	})
	g, err := GroupMean(tbl, []string{"age"}, []string{"v"})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	grp := g.Groups()[0]
	assert.Equal(t, []Value{Number(40)}, grp.Key)
	assert.Equal(t, 2, grp.Size)
	assert.Equal(t, Number(2), grp.Means[0])

	out, err := g.Table(true)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestGroupMeanFoldsSignedZero(t *testing.T) {
	tbl := mustTable(t, []string{"k", "v"}, [][]Value{
		{Number(0), Number(2)},
		{Number(math.Copysign(0, -1)), Number(4)},
	})
	g, err := GroupMean(tbl, []string{"k"}, []string{"v"})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, 2, g.Groups()[0].Size)
	assert.Equal(t, Number(3), g.Groups()[0].Means[0])
}

func TestGroupMeanNonNumericCellsExcluded(t *testing.T) {
	tbl := mustTable(t, []string{"g", "v"}, [][]Value{
		{Number(1), String("4")},
		{Number(1), String("n/a")},
		{Number(1), String("8")},
		{Number(2), String("oops")},
	})
	g, err := GroupMean(tbl, []string{"g"}, []string{"v"})
	require.NoError(t, err)
	groups := g.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, Number(6), groups[0].Means[0])
	assert.True(t, groups[1].Means[0].IsNull(), "no numeric cell leaves the mean undefined")
}

func TestGroupMeanOrderingAndCount(t *testing.T) {
	tbl := mustTable(t, []string{"age", "sex", "v"}, [][]Value{
		{Number(40), String("Male"), Number(1)},
		{Number(5), String("Male"), Number(2)},
		{Number(40), String("Female"), Number(3)},
		{Number(5), String("Male"), Number(4)},
		{Number(100), String("Female"), Number(5)},
	})

	g, err := GroupMean(tbl, []string{"age", "sex"}, []string{"v"})
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len(), "distinct key tuples")
	assert.LessOrEqual(t, g.Len(), tbl.Len())

	var keys [][]Value
	for _, grp := range g.Groups() {
		keys = append(keys, grp.Key)
	}
	assert.Equal(t, [][]Value{
		{Number(5), String("Male")},
		{Number(40), String("Female")},
		{Number(40), String("Male")},
		{Number(100), String("Female")},
	}, keys, "numeric keys sort numerically, not as text")
	assert.Equal(t, Number(3), g.Groups()[0].Means[0])
	assert.Equal(t, 2, g.Groups()[0].Size)
}

func TestGroupMeanIdempotent(t *testing.T) {
	tbl := mustTable(t, []string{"k", "x", "y"}, [][]Value{
		{String("b"), Number(1), Number(10)},
		{String("a"), Number(3), Null()},
		{String("b"), Number(5), Number(30)},
		{String("a"), Number(7), Number(2)},
	})
	first, err := GroupMean(tbl, []string{"k"}, []string{"x", "y"})
	require.NoError(t, err)
	firstTbl, err := first.Table(false)
	require.NoError(t, err)

	second, err := GroupMean(firstTbl, []string{"k"}, []string{"x", "y"})
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i, grp := range second.Groups() {
		assert.Equal(t, 1, grp.Size)
		assert.Equal(t, first.Groups()[i].Key, grp.Key)
		assert.Equal(t, first.Groups()[i].Means, grp.Means)
	}
}

func TestGroupedTable(t *testing.T) {
	tbl := mustTable(t, []string{"k", "x"}, [][]Value{
		{String("b"), Number(2)},
		{String("a"), Number(4)},
		{String("a"), Number(6)},
	})
	g, err := GroupMean(tbl, []string{"k"}, []string{"x"})
	require.NoError(t, err)

	out, err := g.Table(true)
	require.NoError(t, err)
	assert.Equal(t, []string{"k", "x", CountColumn}, out.Columns())
	assert.Equal(t, []Value{String("a"), Number(5), Number(2)}, out.Row(0))
	assert.Equal(t, []Value{String("b"), Number(2), Number(1)}, out.Row(1))
}

func TestGroupMeanErrors(t *testing.T) {
	tbl := mustTable(t, []string{"k"}, [][]Value{{String("a")}})

	_, err := GroupMean(tbl, nil, nil)
	assert.Error(t, err)

	_, err = GroupMean(tbl, []string{"missing"}, nil)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = GroupMean(tbl, []string{"k"}, []string{"missing"})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestGroupMeanEmptyTable(t *testing.T) {
	tbl := mustTable(t, []string{"k", "v"}, nil)
	g, err := GroupMean(tbl, []string{"k"}, []string{"v"})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}
