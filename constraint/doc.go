// Package constraint provides constructs needed to declare and evaluate
// constraints over a candidate table.
//
// A constraint names a subset of table columns (its parameters) and reports the
// identifiers of rows that violate it;
//   - a Condition is a single-column boolean predicate
//   - a Constraint combines conditions, or direct multi-column logic, into an
//     invalid-row set
package constraint
