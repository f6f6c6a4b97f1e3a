package constraint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winnowlab/winnow/table"
)

func TestNoLabelDuplicates(t *testing.T) {
	tbl, err := table.FromRows([]string{"p1", "p2", "p3", "p4"}, [][]table.Value{
		{"A", "B", "C", "D"}, // all distinct, valid
		{"A", "A", "B", "C"},
		{"A", "A", "B", "B"},
		{"A", "A", "B", "A"},
		{"A", "C", "A", "C"},
		{"A", "C", "B", "C"},
	})
	require.NoError(t, err)

	c, err := NewNoLabelDuplicates([]string{"p1", "p2", "p3", "p4"})
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Equal(t, []table.RowID{1, 2, 3, 4, 5}, invalid)
}

func TestLinkedParameters(t *testing.T) {
	tbl, err := table.FromRows([]string{"enc1", "enc2", "enc3"}, [][]table.Value{
		{"A", "A", "A"}, // valid
		{"A", "A", "B"},
		{"A", "B", "C"},
		{"B", "B", "B"}, // valid
	})
	require.NoError(t, err)

	c, err := NewLinkedParameters([]string{"enc1", "enc2", "enc3"})
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Equal(t, []table.RowID{1, 2}, invalid)
}

func TestPermutationInvariance(t *testing.T) {
	tbl, err := table.FromRows([]string{"p1", "p2", "n"}, [][]table.Value{
		{"a", "b", 1.0}, // kept, canonical occurrence
		{"b", "a", 1.0}, // permutation of row 0
		{"a", "a", 1.0}, // label duplicate
		{"a", "b", 2.0}, // other column differs, kept
		{"b", "c", 1.0}, // kept
	})
	require.NoError(t, err)

	c, err := NewPermutationInvariance([]string{"p1", "p2"}, nil)
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Equal(t, []table.RowID{1, 2}, invalid)
}

// flagging, pruning and re-evaluating yields nothing new
func TestPermutationInvarianceIdempotent(t *testing.T) {
	tbl, err := table.FromRows([]string{"p1", "p2", "n"}, [][]table.Value{
		{"a", "b", 1.0},
		{"b", "a", 1.0},
		{"c", "c", 1.0},
		{"b", "a", 2.0},
		{"a", "b", 2.0},
	})
	require.NoError(t, err)

	c, err := NewPermutationInvariance([]string{"p1", "p2"}, nil)
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	require.NotEmpty(t, invalid)

	rest := tbl.Drop(invalid...)
	again, err := c.GetInvalid(rest)
	require.NoError(t, err)
	assert.Empty(t, again)
}

// the first occurrence in row order is the canonical one
func TestPermutationInvarianceTieBreak(t *testing.T) {
	tbl, err := table.FromRows([]string{"p1", "p2"}, [][]table.Value{
		{"x", "y"},
		{"y", "x"},
		{"y", "x"},
	})
	require.NoError(t, err)

	c, err := NewPermutationInvariance([]string{"p1", "p2"}, nil)
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Equal(t, []table.RowID{1, 2}, invalid)
}

// slot labels carrying the signature machinery's own bytes must not make two
// genuinely different rows look like permutations of each other
func TestPermutationInvarianceSeparatorResistant(t *testing.T) {
	tbl, err := table.FromRows([]string{"p1", "p2", "q1", "q2"}, [][]table.Value{
		{"a\x1fs:b", "c", int64(1), int64(2)},
		{"a", "b\x1fs:c", int64(1), int64(2)},
	})
	require.NoError(t, err)

	c, err := NewPermutationInvariance([]string{"p1", "p2"}, nil)
	require.NoError(t, err)

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Empty(t, invalid)
}

func TestPermutationInvarianceWithDependencies(t *testing.T) {
	tbl, err := table.FromRows([]string{"g1", "a1", "g2", "a2"}, [][]table.Value{
		{"on", "x", "on", "y"},  // kept
		{"on", "y", "on", "x"},  // permutation of row 0
		{"off", "x", "on", "y"}, // a1 irrelevant, kept as canonical
		{"off", "z", "on", "y"}, // a1 irrelevant, collapses onto row 2
	})
	require.NoError(t, err)

	deps, err := NewDependencies(
		[]string{"g1", "g2"},
		[]Condition{mustSubSelection(t, "on"), mustSubSelection(t, "on")},
		[][]string{{"a1"}, {"a2"}},
	)
	require.NoError(t, err)
	require.False(t, deps.PermutationInvariant())

	c, err := NewPermutationInvariance([]string{"a1", "a2"}, deps)
	require.NoError(t, err)
	require.True(t, c.Dependencies.PermutationInvariant())
	require.False(t, deps.PermutationInvariant(), "wiring must not touch the caller's instance")

	invalid, err := c.GetInvalid(tbl)
	require.NoError(t, err)
	assert.Equal(t, []table.RowID{1, 3}, invalid)
}

func TestDuplicatesValidation(t *testing.T) {
	_, err := NewNoLabelDuplicates(nil)
	require.Error(t, err)

	_, err = NewLinkedParameters([]string{"x", "x"})
	require.Error(t, err)

	_, err = NewPermutationInvariance([]string{"x", "x"}, nil)
	require.Error(t, err)
}
