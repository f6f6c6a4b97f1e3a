package constraint

import (
	"fmt"

	"github.com/winnowlab/winnow/table"
)

// Type tags a concrete constraint variant. The set of tags is closed; see Order.
type Type string

const (
	TypeCustom                Type = "CUSTOM"
	TypeExclude               Type = "EXCLUDE"
	TypeNoLabelDuplicates     Type = "NO_LABEL_DUPLICATES"
	TypeLinkedParameters      Type = "LINKED_PARAMETERS"
	TypeSum                   Type = "SUM"
	TypeProduct               Type = "PRODUCT"
	TypePermutationInvariance Type = "PERMUTATION_INVARIANCE"
	TypeDependencies          Type = "DEPENDENCIES"
)

// Order is the fixed priority in which constraints are applied when several
// target the same table; earlier entries are applied first. Callers composing
// multiple constraints rely on this ordering for reproducible pruning.
var Order = []Type{
	TypeCustom,
	TypeExclude,
	TypeNoLabelDuplicates,
	TypeLinkedParameters,
	TypeSum,
	TypeProduct,
	TypePermutationInvariance,
	TypeDependencies,
}

// Constraint is a rule over a named subset of table columns. Implementations
// are immutable once constructed and safe for concurrent evaluation.
type Constraint interface {
	// ConstraintType returns the variant tag.
	ConstraintType() Type

	// Parameters returns the column names the constraint targets.
	Parameters() []string

	// GetInvalid returns the identifiers of rows violating the constraint, in
	// table row order. The table is never mutated. A parameter naming a column
	// the table does not have surfaces table.ErrColumnNotFound.
	GetInvalid(t *table.Table) ([]table.RowID, error)

	// Config returns the declarative form of the constraint; see FromConfig.
	Config() (Config, error)
}

// validateParameters enforces the shared constructor invariant: at least one
// parameter, no duplicates.
func validateParameters(params []string) error {
	if len(params) == 0 {
		return fmt.Errorf("constraint needs at least one parameter")
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, ok := seen[p]; ok {
			return fmt.Errorf("parameters must be unique, got duplicate %q in %v", p, params)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// rowKeys returns the canonical keys of row i restricted to the named columns.
func rowKeys(t *table.Table, i int, names []string) ([]string, error) {
	cells, err := t.Cells(i, names)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(cells))
	for k, v := range cells {
		keys[k] = table.Key(v)
	}
	return keys, nil
}
