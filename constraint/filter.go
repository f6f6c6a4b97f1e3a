package constraint

import (
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/winnowlab/winnow/logger"
	"github.com/winnowlab/winnow/table"
)

// rank returns the priority of a type tag per Order; unknown tags sort last.
func rank(t Type) int {
	if i := slices.Index(Order, t); i >= 0 {
		return i
	}
	return len(Order)
}

// SortByOrder returns the constraints stably sorted by the fixed priority
// ordering; the input is not modified.
func SortByOrder(cs []Constraint) []Constraint {
	res := slices.Clone(cs)
	slices.SortStableFunc(res, func(a, b Constraint) int {
		return rank(a.ConstraintType()) - rank(b.ConstraintType())
	})
	return res
}

// Apply evaluates the constraints in priority order, pruning the table between
// constraints, and returns the pruned table together with all row identifiers
// removed. Pruning between constraints matters for the duplicate-detecting
// variants, whose first-occurrence tie-break sees only the surviving rows.
func Apply(t *table.Table, cs []Constraint) (*table.Table, []table.RowID, error) {
	log := logger.Logger()
	cur := t
	var removed []table.RowID
	for _, c := range SortByOrder(cs) {
		invalid, err := c.GetInvalid(cur)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().
			Str("type", string(c.ConstraintType())).
			Strs("parameters", c.Parameters()).
			Int("invalid", len(invalid)).
			Msg("constraint applied")
		cur = cur.Drop(invalid...)
		removed = append(removed, invalid...)
	}
	return cur, sortByTableOrder(t, removed), nil
}

// GetInvalidAll evaluates all constraints against the same table, each
// independently, and unions the invalid sets. Constraints are immutable after
// construction and evaluation is read-only, so the evaluations run in
// parallel; the union is deterministic, ordered by table row order.
func GetInvalidAll(t *table.Table, cs []Constraint) ([]table.RowID, error) {
	results := make([][]table.RowID, len(cs))
	var g errgroup.Group
	for i, c := range cs {
		g.Go(func() error {
			invalid, err := c.GetInvalid(t)
			if err != nil {
				return err
			}
			results[i] = invalid
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []table.RowID
	for _, r := range results {
		all = append(all, r...)
	}
	return sortByTableOrder(t, all), nil
}
