package utils

import "golang.org/x/exp/constraints"

// ToFloat64s converts a numeric slice to float64, elementwise.
func ToFloat64s[T constraints.Integer | constraints.Float](v []T) []float64 {
	res := make([]float64, len(v))
	for i := range v {
		res[i] = float64(v[i])
	}
	return res
}
