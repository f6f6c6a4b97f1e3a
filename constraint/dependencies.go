package constraint

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/winnowlab/winnow/internal/utils"
	"github.com/winnowlab/winnow/table"
)

// sentinelNonce distinguishes sentinels of concurrent evaluations; table.Key
// namespaces every genuine cell key, none starts with a NUL byte, so
// sentinels never collide with data.
var sentinelNonce atomic.Uint64

// Dependencies declares that some parameters are only relevant when a
// governing parameter meets its condition. For every governing parameter whose
// condition fails on a row, the cells of the associated affected-parameter
// group are replaced by a sentinel shared within that group and evaluation,
// so differing irrelevant settings collapse onto each other. Each affected
// cell is then paired with its governing value, and rows whose resulting
// signature over the remaining columns duplicates an earlier row are flagged;
// the earliest row of every duplicate group is kept.
//
// All dependencies of a search space must be declared in a single constraint.
type Dependencies struct {
	Params         []string
	Conditions     []Condition
	AffectedParams [][]string

	// set by PermutationInvariance at wiring time, not by users; when true the
	// affected cells are compared as an unordered set instead of a tuple
	permutationInvariant bool
}

// NewDependencies returns a dependency constraint. Conditions and affected
// parameter groups correspond one-to-one with the governing parameters.
func NewDependencies(parameters []string, conditions []Condition, affectedParameters [][]string) (*Dependencies, error) {
	return newDependencies(parameters, conditions, affectedParameters, false)
}

func newDependencies(parameters []string, conditions []Condition, affectedParameters [][]string, permutationInvariant bool) (*Dependencies, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if len(conditions) != len(affectedParameters) {
		return nil, fmt.Errorf("dependency constraint needs exactly one condition per affected parameter group, got %d conditions for %d groups",
			len(conditions), len(affectedParameters))
	}
	if len(conditions) != len(parameters) {
		return nil, fmt.Errorf("dependency constraint needs one condition per governing parameter, got %d conditions for %d parameters",
			len(conditions), len(parameters))
	}
	groups := make([][]string, len(affectedParameters))
	for i, g := range affectedParameters {
		groups[i] = slices.Clone(g)
	}
	return &Dependencies{
		Params:               slices.Clone(parameters),
		Conditions:           slices.Clone(conditions),
		AffectedParams:       groups,
		permutationInvariant: permutationInvariant,
	}, nil
}

func (c *Dependencies) ConstraintType() Type { return TypeDependencies }

func (c *Dependencies) Parameters() []string { return slices.Clone(c.Params) }

// PermutationInvariant reports whether affected cells are compared as an
// unordered set.
func (c *Dependencies) PermutationInvariant() bool { return c.permutationInvariant }

// GetInvalid implements Constraint.
func (c *Dependencies) GetInvalid(t *table.Table) ([]table.RowID, error) {
	n := t.NumRows()

	// working key of every cell; censoring and re-keying happen here, the
	// table itself is never touched
	keys := make(map[string][]string, len(t.Columns()))
	for _, name := range t.Columns() {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		ks := make([]string, n)
		for i, v := range col {
			ks[i] = table.Key(v)
		}
		keys[name] = ks
	}
	lookup := func(name string) ([]string, error) {
		ks, ok := keys[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (have %v)", table.ErrColumnNotFound, name, t.Columns())
		}
		return ks, nil
	}

	// censor: rows failing a governing condition get the group's sentinel in
	// every affected cell
	nonce := sentinelNonce.Add(1)
	for k, p := range c.Params {
		col, err := t.Column(p)
		if err != nil {
			return nil, err
		}
		mask, err := c.Conditions[k].Evaluate(col)
		if err != nil {
			return nil, fmt.Errorf("evaluating condition for governing parameter %q: %w", p, err)
		}
		sentinel := fmt.Sprintf("\x00d:%d:%d", nonce, k)
		for _, a := range c.AffectedParams[k] {
			ks, err := lookup(a)
			if err != nil {
				return nil, err
			}
			for i := 0; i < n; i++ {
				if !mask.Test(uint(i)) {
					ks[i] = sentinel
				}
			}
		}
	}

	// re-key: pair each affected cell with the value of its governing
	// parameter, so equal affected values under different governing values do
	// not collide
	for k, p := range c.Params {
		govKeys, err := lookup(p)
		if err != nil {
			return nil, err
		}
		for _, a := range c.AffectedParams[k] {
			ks, _ := lookup(a)
			for i := 0; i < n; i++ {
				ks[i] = utils.JoinKeys([]string{ks[i], govKeys[i]})
			}
		}
	}

	// signature space: all columns that are neither governing nor affected,
	// plus the re-keyed affected cells
	var allAffected []string
	for _, g := range c.AffectedParams {
		allAffected = append(allAffected, g...)
	}
	var otherCols []string
	for _, name := range t.Columns() {
		if slices.Contains(c.Params, name) || slices.Contains(allAffected, name) {
			continue
		}
		otherCols = append(otherCols, name)
	}

	sigs := make([]string, n)
	for i := 0; i < n; i++ {
		parts := make([]string, 0, len(otherCols))
		for _, name := range otherCols {
			parts = append(parts, keys[name][i])
		}
		aff := make([]string, len(allAffected))
		for j, name := range allAffected {
			aff[j] = keys[name][i]
		}
		if c.permutationInvariant {
			// set semantics: duplicate affected values within a row collapse
			slices.Sort(aff)
			aff = slices.Compact(aff)
		}
		sigs[i] = utils.JoinKeys(append(parts, aff...))
	}
	var invalid []table.RowID
	for _, i := range utils.DuplicateIndices(sigs) {
		invalid = append(invalid, t.IDAt(i))
	}
	return invalid, nil
}

// Config implements Constraint.
func (c *Dependencies) Config() (Config, error) {
	conds := make([]Config, len(c.Conditions))
	for i, cond := range c.Conditions {
		conds[i] = cond.Config()
	}
	groups := make([][]string, len(c.AffectedParams))
	for i, g := range c.AffectedParams {
		groups[i] = slices.Clone(g)
	}
	return Config{
		"type":                string(TypeDependencies),
		"parameters":          slices.Clone(c.Params),
		"conditions":          conds,
		"affected_parameters": groups,
	}, nil
}
