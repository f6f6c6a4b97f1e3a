package table

import (
	"golang.org/x/exp/constraints"

	"github.com/winnowlab/winnow/internal/utils"
)

// Numeric converts a typed numeric slice into table cells. Numeric cells are
// stored as float64 so that equal values compare equal across integer and
// floating inputs.
func Numeric[T constraints.Integer | constraints.Float](vals ...T) []Value {
	fs := utils.ToFloat64s(vals)
	res := make([]Value, len(fs))
	for i, f := range fs {
		res[i] = f
	}
	return res
}

// Labels converts strings into table cells.
func Labels(vals ...string) []Value {
	res := make([]Value, len(vals))
	for i, s := range vals {
		res[i] = s
	}
	return res
}
