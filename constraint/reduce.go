package constraint

import (
	"fmt"
	"slices"

	"github.com/winnowlab/winnow/table"
)

// Sum flags rows whose row-wise sum over the parameter columns fails the
// threshold condition.
type Sum struct {
	Params    []string
	Condition *ThresholdCondition
}

// NewSum returns a sum constraint.
func NewSum(parameters []string, condition *ThresholdCondition) (*Sum, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, fmt.Errorf("sum constraint needs a threshold condition")
	}
	return &Sum{Params: slices.Clone(parameters), Condition: condition}, nil
}

func (c *Sum) ConstraintType() Type { return TypeSum }

func (c *Sum) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *Sum) GetInvalid(t *table.Table) ([]table.RowID, error) {
	return reduceInvalid(t, c.Params, c.Condition, 0, func(acc, x float64) float64 { return acc + x })
}

// Config implements Constraint.
func (c *Sum) Config() (Config, error) {
	return Config{
		"type":       string(TypeSum),
		"parameters": slices.Clone(c.Params),
		"condition":  c.Condition.Config(),
	}, nil
}

// Product flags rows whose row-wise product over the parameter columns fails
// the threshold condition.
type Product struct {
	Params    []string
	Condition *ThresholdCondition
}

// NewProduct returns a product constraint.
func NewProduct(parameters []string, condition *ThresholdCondition) (*Product, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	if condition == nil {
		return nil, fmt.Errorf("product constraint needs a threshold condition")
	}
	return &Product{Params: slices.Clone(parameters), Condition: condition}, nil
}

func (c *Product) ConstraintType() Type { return TypeProduct }

func (c *Product) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *Product) GetInvalid(t *table.Table) ([]table.RowID, error) {
	return reduceInvalid(t, c.Params, c.Condition, 1, func(acc, x float64) float64 { return acc * x })
}

// Config implements Constraint.
func (c *Product) Config() (Config, error) {
	return Config{
		"type":       string(TypeProduct),
		"parameters": slices.Clone(c.Params),
		"condition":  c.Condition.Config(),
	}, nil
}

// reduceInvalid folds the parameter columns row-wise and flags rows where the
// threshold condition does not hold on the folded value.
func reduceInvalid(t *table.Table, params []string, cond *ThresholdCondition, init float64, op func(acc, x float64) float64) ([]table.RowID, error) {
	cols := make([]table.Column, len(params))
	for k, p := range params {
		col, err := t.Column(p)
		if err != nil {
			return nil, err
		}
		cols[k] = col
	}
	reduced := make(table.Column, t.NumRows())
	for i := range reduced {
		acc := init
		for k, col := range cols {
			x, err := table.AsFloat(col[i])
			if err != nil {
				return nil, fmt.Errorf("parameter %q: %w", params[k], err)
			}
			acc = op(acc, x)
		}
		reduced[i] = acc
	}
	satisfied, err := cond.Evaluate(reduced)
	if err != nil {
		return nil, err
	}
	var invalid []table.RowID
	for i := 0; i < t.NumRows(); i++ {
		if !satisfied.Test(uint(i)) {
			invalid = append(invalid, t.IDAt(i))
		}
	}
	return invalid, nil
}
