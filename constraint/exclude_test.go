package constraint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnowlab/winnow/table"
)

func mustThreshold(t *testing.T, threshold float64, operator string) *ThresholdCondition {
	t.Helper()
	c, err := NewThreshold(threshold, operator)
	require.NoError(t, err)
	return c
}

func mustSubSelection(t *testing.T, selection ...string) *SubSelectionCondition {
	t.Helper()
	c, err := NewSubSelection(selection)
	require.NoError(t, err)
	return c
}

func TestExcludeCombiners(t *testing.T) {
	tbl, err := table.FromRows([]string{"temp", "solvent"}, [][]table.Value{
		{90.0, "water"},   // both conditions hold
		{90.0, "toluene"}, // temp only
		{40.0, "water"},   // solvent only
		{40.0, "toluene"}, // neither
	})
	require.NoError(t, err)

	conds := []Condition{mustThreshold(t, 50, ">"), mustSubSelection(t, "water")}
	params := []string{"temp", "solvent"}

	for _, tc := range []struct {
		combiner Combiner
		want     []table.RowID
	}{
		{CombinerAnd, []table.RowID{0}},
		{CombinerOr, []table.RowID{0, 1, 2}},
		{CombinerXor, []table.RowID{1, 2}},
	} {
		c, err := NewExclude(params, conds, tc.combiner)
		require.NoError(t, err)
		invalid, err := c.GetInvalid(tbl)
		require.NoError(t, err)
		assert.Equal(t, tc.want, invalid, "combiner %s", tc.combiner)
	}
}

// with a single condition, all combiners coincide
func TestExcludeSingleConditionCombinerIrrelevant(t *testing.T) {
	tbl, err := table.FromRows([]string{"x"}, [][]table.Value{{1.0}, {5.0}, {9.0}})
	require.NoError(t, err)

	var results [][]table.RowID
	for _, combiner := range []Combiner{CombinerAnd, CombinerOr, CombinerXor} {
		c, err := NewExclude([]string{"x"}, []Condition{mustThreshold(t, 4, ">")}, combiner)
		require.NoError(t, err)
		invalid, err := c.GetInvalid(tbl)
		require.NoError(t, err)
		results = append(results, invalid)
	}
	assert.Equal(t, results[0], results[1])
	assert.Equal(t, results[0], results[2])
	assert.Equal(t, []table.RowID{1, 2}, results[0])
}

func TestExcludeValidation(t *testing.T) {
	cond := []Condition{mustThreshold(t, 1, ">")}

	_, err := NewExclude(nil, cond, CombinerAnd)
	require.Error(t, err)

	_, err = NewExclude([]string{"x", "x"}, []Condition{cond[0], cond[0]}, CombinerAnd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique")

	_, err = NewExclude([]string{"x"}, nil, CombinerAnd)
	require.Error(t, err)

	_, err = NewExclude([]string{"x", "y"}, cond, CombinerAnd)
	require.Error(t, err)

	_, err = NewExclude([]string{"x"}, cond, Combiner("NAND"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAND")
}

func TestExcludeMissingColumn(t *testing.T) {
	tbl, err := table.FromRows([]string{"x"}, [][]table.Value{{1.0}})
	require.NoError(t, err)

	c, err := NewExclude([]string{"y"}, []Condition{mustThreshold(t, 1, ">")}, CombinerAnd)
	require.NoError(t, err)
	_, err = c.GetInvalid(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))
}
