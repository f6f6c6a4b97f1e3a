// Package winnow filters combinatorial parameter configurations against
// declarative constraints before they reach an optimizer.
//
// winnow provides the following constraint kinds:
//   - EXCLUDE
//   - SUM, PRODUCT
//   - NO_LABEL_DUPLICATES, LINKED_PARAMETERS
//   - PERMUTATION_INVARIANCE
//   - DEPENDENCIES
//   - CUSTOM
//
// The constraint package evaluates them over candidate tables from the table
// package; constraint.Order fixes the sequence in which multiple constraints
// are applied.
package winnow

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
