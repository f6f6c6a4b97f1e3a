package constraint

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Combiner merges the boolean masks of several conditions into one.
type Combiner string

const (
	CombinerAnd Combiner = "AND"
	CombinerOr  Combiner = "OR"
	CombinerXor Combiner = "XOR"
)

var combiners = []Combiner{CombinerAnd, CombinerOr, CombinerXor}

func validateCombiner(c Combiner) error {
	for _, v := range combiners {
		if c == v {
			return nil
		}
	}
	return fmt.Errorf("invalid combiner %q, valid combiners are %v", c, combiners)
}

// Reduce left-folds masks pairwise. AND keeps rows set in every mask, OR rows
// set in any mask, XOR rows set in an odd number of masks.
func (c Combiner) Reduce(masks []*bitset.BitSet) (*bitset.BitSet, error) {
	if len(masks) == 0 {
		return nil, fmt.Errorf("cannot combine an empty mask list")
	}
	res := masks[0].Clone()
	for _, m := range masks[1:] {
		switch c {
		case CombinerAnd:
			res.InPlaceIntersection(m)
		case CombinerOr:
			res.InPlaceUnion(m)
		case CombinerXor:
			res.InPlaceSymmetricDifference(m)
		default:
			return nil, fmt.Errorf("invalid combiner %q, valid combiners are %v", c, combiners)
		}
	}
	return res, nil
}
