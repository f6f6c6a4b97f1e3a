package constraint

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/winnowlab/winnow/table"
)

// Exclude flags rows where per-parameter conditions, zipped positionally with
// the parameter list, evaluate true under the configured combiner.
type Exclude struct {
	Params     []string
	Conditions []Condition
	Combiner   Combiner
}

// NewExclude returns an exclusion constraint. Conditions correspond one-to-one
// with parameters.
func NewExclude(parameters []string, conditions []Condition, combiner Combiner) (*Exclude, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if len(conditions) == 0 {
		return nil, fmt.Errorf("exclude constraint needs at least one condition")
	}
	if len(conditions) != len(parameters) {
		return nil, fmt.Errorf("exclude constraint needs one condition per parameter, got %d conditions for %d parameters",
			len(conditions), len(parameters))
	}
	if err := validateCombiner(combiner); err != nil {
		return nil, err
	}
	return &Exclude{Params: slices.Clone(parameters), Conditions: slices.Clone(conditions), Combiner: combiner}, nil
}

func (c *Exclude) ConstraintType() Type { return TypeExclude }

func (c *Exclude) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *Exclude) GetInvalid(t *table.Table) ([]table.RowID, error) {
	masks := make([]*bitset.BitSet, len(c.Conditions))
	for k, cond := range c.Conditions {
		col, err := t.Column(c.Params[k])
		if err != nil {
			return nil, err
		}
		m, err := cond.Evaluate(col)
		if err != nil {
			return nil, fmt.Errorf("evaluating condition for parameter %q: %w", c.Params[k], err)
		}
		masks[k] = m
	}
	mask, err := c.Combiner.Reduce(masks)
	if err != nil {
		return nil, err
	}
	var invalid []table.RowID
	for i, e := mask.NextSet(0); e; i, e = mask.NextSet(i + 1) {
		invalid = append(invalid, t.IDAt(int(i)))
	}
	return invalid, nil
}

// Config implements Constraint.
func (c *Exclude) Config() (Config, error) {
	conds := make([]Config, len(c.Conditions))
	for i, cond := range c.Conditions {
		conds[i] = cond.Config()
	}
	return Config{
		"type":       string(TypeExclude),
		"parameters": slices.Clone(c.Params),
		"conditions": conds,
		"combiner":   string(c.Combiner),
	}, nil
}
