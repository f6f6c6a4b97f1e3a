package constraint

import (
	"slices"

	"github.com/winnowlab/winnow/internal/utils"
	"github.com/winnowlab/winnow/table"
)

// NoLabelDuplicates flags rows whose values across the parameter columns are
// not all distinct.
//
// Examples over four parameters:
//   - A,B,C,D remains
//   - A,A,B,C is removed
//   - A,A,B,B is removed
//   - A,C,B,C is removed
type NoLabelDuplicates struct {
	Params []string
}

// NewNoLabelDuplicates returns a label-uniqueness constraint.
func NewNoLabelDuplicates(parameters []string) (*NoLabelDuplicates, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	return &NoLabelDuplicates{Params: slices.Clone(parameters)}, nil
}

func (c *NoLabelDuplicates) ConstraintType() Type { return TypeNoLabelDuplicates }

func (c *NoLabelDuplicates) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *NoLabelDuplicates) GetInvalid(t *table.Table) ([]table.RowID, error) {
	var invalid []table.RowID
	for i := 0; i < t.NumRows(); i++ {
		keys, err := rowKeys(t, i, c.Params)
		if err != nil {
			return nil, err
		}
		if utils.CountDistinct(keys) != len(c.Params) {
			invalid = append(invalid, t.IDAt(i))
		}
	}
	return invalid, nil
}

// Config implements Constraint.
func (c *NoLabelDuplicates) Config() (Config, error) {
	return Config{
		"type":       string(TypeNoLabelDuplicates),
		"parameters": slices.Clone(c.Params),
	}, nil
}

// LinkedParameters flags rows whose values across the parameter columns are
// not all identical. Linking parameters keeps only rows where they agree,
// which is useful when several columns encode the same underlying quantity.
type LinkedParameters struct {
	Params []string
}

// NewLinkedParameters returns a value-linking constraint.
func NewLinkedParameters(parameters []string) (*LinkedParameters, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	return &LinkedParameters{Params: slices.Clone(parameters)}, nil
}

func (c *LinkedParameters) ConstraintType() Type { return TypeLinkedParameters }

func (c *LinkedParameters) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *LinkedParameters) GetInvalid(t *table.Table) ([]table.RowID, error) {
	var invalid []table.RowID
	for i := 0; i < t.NumRows(); i++ {
		keys, err := rowKeys(t, i, c.Params)
		if err != nil {
			return nil, err
		}
		if utils.CountDistinct(keys) != 1 {
			invalid = append(invalid, t.IDAt(i))
		}
	}
	return invalid, nil
}

// Config implements Constraint.
func (c *LinkedParameters) Config() (Config, error) {
	return Config{
		"type":       string(TypeLinkedParameters),
		"parameters": slices.Clone(c.Params),
	}, nil
}

// PermutationInvariance declares that the parameter columns are interchangeable:
// (a, b) and (b, a) denote the same candidate. Rows carrying label duplicates
// are flagged outright, then later rows whose unordered parameter values and
// remaining columns duplicate an earlier row are flagged; the earliest row of
// every duplicate group is kept. An optional dependency constraint, wired
// permutation-invariant at construction, catches duplicates that only appear
// once irrelevant cells are collapsed.
type PermutationInvariance struct {
	Params       []string
	Dependencies *Dependencies
}

// NewPermutationInvariance returns a permutation-invariance constraint. deps
// may be nil; when given, it is re-wired into permutation-invariant mode, the
// caller's instance is not modified.
func NewPermutationInvariance(parameters []string, deps *Dependencies) (*PermutationInvariance, error) {
	if err := validateParameters(parameters); err != nil {
		return nil, err
	}
	c := &PermutationInvariance{Params: slices.Clone(parameters)}
	if deps != nil {
		wired, err := newDependencies(deps.Params, deps.Conditions, deps.AffectedParams, true)
		if err != nil {
			return nil, err
		}
		c.Dependencies = wired
	}
	return c, nil
}

func (c *PermutationInvariance) ConstraintType() Type { return TypePermutationInvariance }

func (c *PermutationInvariance) Parameters() []string { return slices.Clone(c.Params) }

// GetInvalid implements Constraint.
func (c *PermutationInvariance) GetInvalid(t *table.Table) ([]table.RowID, error) {
	// stage 1: label duplicates within the invariant columns
	labelDup := NoLabelDuplicates{Params: c.Params}
	invalid, err := labelDup.GetInvalid(t)
	if err != nil {
		return nil, err
	}
	flagged := make(map[table.RowID]struct{}, len(invalid))
	for _, id := range invalid {
		flagged[id] = struct{}{}
	}

	// stage 2: on the label-duplicate-free rows, a row duplicates an earlier
	// one when the unordered parameter values and all other columns coincide
	otherCols := otherColumns(t, c.Params)
	var sigs []string
	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		if _, ok := flagged[t.IDAt(i)]; ok {
			continue
		}
		paramKeys, err := rowKeys(t, i, c.Params)
		if err != nil {
			return nil, err
		}
		slices.Sort(paramKeys)
		otherKeys, err := rowKeys(t, i, otherCols)
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, utils.JoinKeys(append(otherKeys, paramKeys...)))
		rows = append(rows, i)
	}
	for _, j := range utils.DuplicateIndices(sigs) {
		invalid = append(invalid, t.IDAt(rows[j]))
	}

	// stage 3: dependency-induced duplicates among the rows not yet flagged
	if c.Dependencies != nil {
		more, err := c.Dependencies.GetInvalid(t.Drop(invalid...))
		if err != nil {
			return nil, err
		}
		invalid = append(invalid, more...)
	}

	return sortByTableOrder(t, invalid), nil
}

// Config implements Constraint.
func (c *PermutationInvariance) Config() (Config, error) {
	cfg := Config{
		"type":       string(TypePermutationInvariance),
		"parameters": slices.Clone(c.Params),
	}
	if c.Dependencies != nil {
		dep, err := c.Dependencies.Config()
		if err != nil {
			return nil, err
		}
		cfg["dependencies"] = dep
	}
	return cfg, nil
}

// otherColumns returns the table columns not named in params, in table order.
func otherColumns(t *table.Table, params []string) []string {
	var res []string
	for _, col := range t.Columns() {
		if !slices.Contains(params, col) {
			res = append(res, col)
		}
	}
	return res
}

// sortByTableOrder orders ids by their row position in t.
func sortByTableOrder(t *table.Table, ids []table.RowID) []table.RowID {
	member := make(map[table.RowID]struct{}, len(ids))
	for _, id := range ids {
		member[id] = struct{}{}
	}
	res := make([]table.RowID, 0, len(member))
	for _, id := range t.Index() {
		if _, ok := member[id]; ok {
			res = append(res, id)
		}
	}
	return res
}
