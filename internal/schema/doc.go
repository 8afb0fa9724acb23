// Package schema is the field mapping table: the declarative correspondence
// between the engine's internal field names (DSRC_CODE, ATTR_CODE, ...) and
// the stable public field vocabulary (dataSource, attribute, ...) every
// command renders.
//
// The mapping is data, not code. It is loaded once at init from an embedded
// YAML table and never mutated. Per table it declares:
//
//   - the ordered field list (internal name, public name, value kind)
//   - the designated id and code fields used for sorting and keying
//   - whether the table accepts direct mutation
//   - nested child relations (child table, foreign key, order field)
//   - reference constraints that block deletion of records with dependents
//
// The raw->public mapping is bijective per table, verified at load, so every
// projection can be reversed unambiguously for round-trip edits (Invert).
//
// Required-field and type constraints are declared in embedded CUE and
// checked by unification against candidate records.
package schema
