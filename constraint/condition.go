package constraint

import (
	"fmt"
	"math"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/winnowlab/winnow/table"
)

// ConditionType tags a concrete condition variant.
type ConditionType string

const (
	ConditionThreshold    ConditionType = "THRESHOLD"
	ConditionSubSelection ConditionType = "SUBSELECTION"
)

// Condition is a single-column predicate. Evaluate returns a mask with bit i
// set iff the i-th cell satisfies the condition; the mask length follows the
// column length.
type Condition interface {
	ConditionType() ConditionType
	Evaluate(col table.Column) (*bitset.BitSet, error)
	Config() Config
}

// DefaultTolerance is the absolute tolerance applied to the equality-family
// threshold operators when none is given.
const DefaultTolerance = 1e-8

var thresholdOperators = []string{"<", "<=", "=", "==", "!=", ">", ">="}

// toleranceOperators are the operators for which an absolute tolerance is
// meaningful.
var toleranceOperators = []string{"=", "==", "!="}

// ThresholdCondition compares numeric cells against a threshold.
//
// Tolerance is set for the operators "=", "==" and "!=" (defaulting to
// DefaultTolerance) and must be nil for the ordering operators. Construct via
// NewThreshold or NewThresholdWithTolerance; the constructors validate the
// operator and the tolerance/operator combination eagerly.
type ThresholdCondition struct {
	Threshold float64
	Operator  string
	Tolerance *float64
}

// NewThreshold returns a threshold condition with the default tolerance where
// applicable.
func NewThreshold(threshold float64, operator string) (*ThresholdCondition, error) {
	if !slices.Contains(thresholdOperators, operator) {
		return nil, fmt.Errorf("invalid threshold operator %q, valid operators are %v", operator, thresholdOperators)
	}
	c := &ThresholdCondition{Threshold: threshold, Operator: operator}
	if slices.Contains(toleranceOperators, operator) {
		tol := DefaultTolerance
		c.Tolerance = &tol
	}
	return c, nil
}

// NewThresholdWithTolerance returns a threshold condition with an explicit
// absolute tolerance; only valid for the operators "=", "==" and "!=".
func NewThresholdWithTolerance(threshold float64, operator string, tolerance float64) (*ThresholdCondition, error) {
	if !slices.Contains(thresholdOperators, operator) {
		return nil, fmt.Errorf("invalid threshold operator %q, valid operators are %v", operator, thresholdOperators)
	}
	if !slices.Contains(toleranceOperators, operator) {
		return nil, fmt.Errorf("a tolerance is only valid with the operators %v, got %q", toleranceOperators, operator)
	}
	return &ThresholdCondition{Threshold: threshold, Operator: operator, Tolerance: &tolerance}, nil
}

func (c *ThresholdCondition) ConditionType() ConditionType { return ConditionThreshold }

// Evaluate applies the comparison elementwise. Non-numeric cells are an error;
// threshold semantics on categorical data are never coerced.
func (c *ThresholdCondition) Evaluate(col table.Column) (*bitset.BitSet, error) {
	tol := DefaultTolerance
	if c.Tolerance != nil {
		tol = *c.Tolerance
	}
	mask := bitset.New(uint(len(col)))
	for i, v := range col {
		x, err := table.AsFloat(v)
		if err != nil {
			return nil, fmt.Errorf("threshold condition applied to non-numeric data: %w", err)
		}
		var ok bool
		switch c.Operator {
		case "<":
			ok = x < c.Threshold
		case "<=":
			ok = x <= c.Threshold
		case ">":
			ok = x > c.Threshold
		case ">=":
			ok = x >= c.Threshold
		case "=", "==":
			ok = math.Abs(x-c.Threshold) <= tol
		case "!=":
			ok = math.Abs(x-c.Threshold) > tol
		default:
			return nil, fmt.Errorf("invalid threshold operator %q, valid operators are %v", c.Operator, thresholdOperators)
		}
		if ok {
			mask.Set(uint(i))
		}
	}
	return mask, nil
}

// Config implements Condition.
func (c *ThresholdCondition) Config() Config {
	cfg := Config{
		"type":      string(ConditionThreshold),
		"threshold": c.Threshold,
		"operator":  c.Operator,
	}
	if c.Tolerance != nil {
		cfg["tolerance"] = *c.Tolerance
	}
	return cfg
}

// SubSelectionCondition accepts cells contained in a fixed selection of
// allowed values. Order of the selection is irrelevant and duplicates are
// harmless.
type SubSelectionCondition struct {
	Selection []string
}

// NewSubSelection returns a subset-membership condition.
func NewSubSelection(selection []string) (*SubSelectionCondition, error) {
	if len(selection) == 0 {
		return nil, fmt.Errorf("subselection condition needs at least one allowed value")
	}
	return &SubSelectionCondition{Selection: slices.Clone(selection)}, nil
}

func (c *SubSelectionCondition) ConditionType() ConditionType { return ConditionSubSelection }

// Evaluate tests elementwise membership against the selection.
func (c *SubSelectionCondition) Evaluate(col table.Column) (*bitset.BitSet, error) {
	allowed := make(map[string]struct{}, len(c.Selection))
	for _, s := range c.Selection {
		allowed[table.Key(s)] = struct{}{}
	}
	mask := bitset.New(uint(len(col)))
	for i, v := range col {
		if _, ok := allowed[table.Key(v)]; ok {
			mask.Set(uint(i))
		}
	}
	return mask, nil
}

// Config implements Condition.
func (c *SubSelectionCondition) Config() Config {
	return Config{
		"type":      string(ConditionSubSelection),
		"selection": slices.Clone(c.Selection),
	}
}
