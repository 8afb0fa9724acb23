// Package view projects raw configuration tables into the public field
// vocabulary and narrows/orders the result.
//
// Project renames and transforms fields per the schema mapping, in declared
// order, substituting zero values for missing raw fields so renderers can
// assume field presence. Nested child relations are projected recursively
// and attached under the parent's declared list field.
//
// Filter and SortByID are separate, explicit steps: a stable case-folded
// substring filter over all public values, and a numeric-id sort with a
// code-order fallback.
package view
