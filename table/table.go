// Package table implements the candidate table consumed by the constraint engine;
// a small column-oriented structure with named columns and stable row identifiers.
//
// A Table is append-only; Drop and Select return new tables sharing the column
// cells but never mutate the receiver. Row identifiers survive slicing, which is
// what lets constraint evaluation report invalid rows of a pruned table against
// the identifiers of the original one.
package table

import (
	"fmt"
	"slices"
)

// RowID is a stable row identifier. IDs are assigned at append time and are
// preserved by Drop and Select; they are not positional indices.
type RowID int

// Column holds the cells of a single column, in row order.
type Column []Value

// Table is a column-oriented candidate table.
type Table struct {
	cols   []string
	pos    map[string]int
	data   []Column
	index  []RowID
	nextID RowID
}

// New returns an empty table with the given column names.
// Duplicate column names panic; they are a programming error, not input data.
func New(columns ...string) *Table {
	pos := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := pos[c]; ok {
			panic(fmt.Sprintf("duplicate column name %q", c))
		}
		pos[c] = i
	}
	return &Table{
		cols: slices.Clone(columns),
		pos:  pos,
		data: make([]Column, len(columns)),
	}
}

// FromRows builds a table from row-major data. Row identifiers are assigned
// sequentially starting at 0.
func FromRows(columns []string, rows [][]Value) (*Table, error) {
	t := New(columns...)
	for _, r := range rows {
		if err := t.AppendRow(r...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// AppendRow appends one row; values must match the column count.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) != len(t.cols) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.cols))
	}
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}
	t.index = append(t.index, t.nextID)
	t.nextID++
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.index)
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return slices.Clone(t.cols)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.pos[name]
	return ok
}

// Column returns the cells of the named column, in row order.
// The returned slice must not be modified.
func (t *Table) Column(name string) (Column, error) {
	i, ok := t.pos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrColumnNotFound, name, t.cols)
	}
	return t.data[i], nil
}

// Index returns the row identifiers in row order.
func (t *Table) Index() []RowID {
	return slices.Clone(t.index)
}

// IDAt returns the identifier of the i-th row.
func (t *Table) IDAt(i int) RowID {
	return t.index[i]
}

// Cells returns the values of the i-th row restricted to the named columns,
// in the order the names are given.
func (t *Table) Cells(i int, names []string) ([]Value, error) {
	res := make([]Value, len(names))
	for k, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		res[k] = col[i]
	}
	return res, nil
}

// Drop returns a new table without the rows named by ids. Row order and
// identifiers of the remaining rows are preserved.
func (t *Table) Drop(ids ...RowID) *Table {
	drop := make(map[RowID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	return t.filter(func(id RowID) bool {
		_, ok := drop[id]
		return !ok
	})
}

// Select returns a new table containing only the rows named by ids, in the
// receiver's row order (not the order of ids).
func (t *Table) Select(ids ...RowID) *Table {
	keep := make(map[RowID]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	return t.filter(func(id RowID) bool {
		_, ok := keep[id]
		return ok
	})
}

func (t *Table) filter(keep func(RowID) bool) *Table {
	res := New(t.cols...)
	res.nextID = t.nextID
	for i, id := range t.index {
		if !keep(id) {
			continue
		}
		res.index = append(res.index, id)
		for c := range res.data {
			res.data[c] = append(res.data[c], t.data[c][i])
		}
	}
	return res
}
