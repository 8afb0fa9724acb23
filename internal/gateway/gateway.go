// Package gateway is the only mutation path into the configuration
// document. Every add, update, delete, and whole-document replacement
// validates against the schema, mutates a full copy of the cached document,
// writes it through to the engine, and invalidates the cache only after the
// engine confirms. A failure at any stage leaves the previously cached
// document as the system of record.
package gateway

import (
	"fmt"
	"strings"

	"github.com/brianmacy/szconfigtool/internal/cache"
	"github.com/brianmacy/szconfigtool/internal/document"
	"github.com/brianmacy/szconfigtool/internal/schema"
)

// Gateway applies validated mutations to the cached document.
type Gateway struct {
	cache    *cache.Cache
	registry *schema.Registry
}

// New binds a gateway to the document cache and mapping registry.
func New(c *cache.Cache, registry *schema.Registry) *Gateway {
	return &Gateway{cache: c, registry: registry}
}

// Add appends an internal-schema record to a table. The candidate's id and
// code must be unique within the current document and its required fields
// must satisfy the table's constraints.
func (g *Gateway) Add(table string, candidate document.Record) error {
	spec, err := g.registry.Lookup(table)
	if err != nil {
		return err
	}
	if !spec.Mutable {
		return validationError(table, "", "table does not accept additions")
	}
	if err := schema.Validate(table, candidate); err != nil {
		return &MutationError{Code: ErrCodeValidation, Table: table, Message: "constraint violation", Err: err}
	}

	doc, err := g.cache.Get()
	if err != nil {
		return err
	}

	idField, codeField := spec.InternalIDField(), spec.InternalCodeField()
	for _, existing := range doc.Table(table) {
		if sameKey(existing[idField], candidate[idField]) {
			return validationError(table, valueKey(candidate[idField]),
				fmt.Sprintf("%s already exists", idField))
		}
		if sameCode(existing[codeField], candidate[codeField]) {
			return validationError(table, valueKey(candidate[codeField]),
				fmt.Sprintf("%s already exists", codeField))
		}
	}

	next := doc.Copy()
	next.SetTable(table, append(next.Table(table), candidate))
	return g.writeThrough(table, next)
}

// Update merges an internal-schema patch onto the record identified by key.
// The table's id and code fields cannot be changed; edits that need a new
// key are a delete plus an add.
func (g *Gateway) Update(table, key string, patch document.Record) error {
	spec, err := g.registry.Lookup(table)
	if err != nil {
		return err
	}
	if !spec.Mutable {
		return validationError(table, key, "table does not accept updates")
	}

	idField, codeField := spec.InternalIDField(), spec.InternalCodeField()

	doc, err := g.cache.Get()
	if err != nil {
		return err
	}
	idx := findRecord(doc.Table(table), idField, codeField, key)
	if idx < 0 {
		return validationError(table, key, "no such record")
	}
	existing := doc.Table(table)[idx]

	for _, keyed := range []string{idField, codeField} {
		if v, ok := patch[keyed]; ok && !sameKey(existing[keyed], v) {
			return validationError(table, key,
				fmt.Sprintf("%s is the record key and cannot change", keyed))
		}
	}

	merged := make(document.Record, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	if err := schema.Validate(table, merged); err != nil {
		return &MutationError{Code: ErrCodeValidation, Table: table, Key: key, Message: "constraint violation", Err: err}
	}

	next := doc.Copy()
	next.Table(table)[idx] = merged
	return g.writeThrough(table, next)
}

// Delete removes the record identified by key. Where the schema declares
// dependents, the delete fails with a referential conflict unless cascade
// is requested, in which case declared child rows and referencing records
// are removed in the same write.
func (g *Gateway) Delete(table, key string, cascade bool) error {
	spec, err := g.registry.Lookup(table)
	if err != nil {
		return err
	}
	if !spec.Mutable {
		return validationError(table, key, "table does not accept deletions")
	}

	idField, codeField := spec.InternalIDField(), spec.InternalCodeField()

	doc, err := g.cache.Get()
	if err != nil {
		return err
	}
	idx := findRecord(doc.Table(table), idField, codeField, key)
	if idx < 0 {
		return validationError(table, key, "no such record")
	}
	target := doc.Table(table)[idx]

	if !cascade {
		if conflict := g.findDependents(doc, spec, target); conflict != nil {
			return conflict
		}
	}

	next := doc.Copy()
	records := next.Table(table)
	next.SetTable(table, append(records[:idx:idx], records[idx+1:]...))
	if cascade {
		g.removeDependents(next, spec, target)
	}
	return g.writeThrough(table, next)
}

// Replace performs a whole-document replacement.
func (g *Gateway) Replace(doc *document.Document) error {
	for _, name := range doc.TableNames() {
		for _, rec := range doc.Table(name) {
			if err := schema.Validate(name, rec); err != nil {
				return &MutationError{Code: ErrCodeValidation, Table: name, Message: "constraint violation", Err: err}
			}
		}
	}
	return g.writeThrough("", doc)
}

// writeThrough encodes the mutated copy, writes it to the engine, and
// invalidates the cache only on confirmed success.
func (g *Gateway) writeThrough(table string, next *document.Document) error {
	payload, err := next.Encode()
	if err != nil {
		return &MutationError{Code: ErrCodeWriteThrough, Table: table, Message: "encode document", Err: err}
	}
	if err := g.cache.Transport().WriteConfiguration(payload); err != nil {
		return &MutationError{Code: ErrCodeWriteThrough, Table: table, Message: "engine write failed", Err: err}
	}
	g.cache.Invalidate()
	return nil
}

// findDependents returns a referential conflict if any declared child rows
// or referencing records point at the target.
func (g *Gateway) findDependents(doc *document.Document, spec *schema.TableSpec, target document.Record) *MutationError {
	for _, rel := range spec.Children {
		parentKey := target[rel.ParentKey]
		for _, child := range doc.Table(rel.Table) {
			if sameKey(child[rel.ForeignKey], parentKey) {
				return &MutationError{
					Code:    ErrCodeReferentialConflict,
					Table:   spec.Name,
					Key:     valueKey(parentKey),
					Message: fmt.Sprintf("%s rows depend on this record", rel.Table),
				}
			}
		}
	}
	for _, ref := range spec.References {
		via := target[ref.Via]
		for _, dep := range doc.Table(ref.Table) {
			if sameCode(dep[ref.Field], via) {
				return &MutationError{
					Code:    ErrCodeReferentialConflict,
					Table:   spec.Name,
					Key:     valueKey(via),
					Message: fmt.Sprintf("%s.%s references this record", ref.Table, ref.Field),
				}
			}
		}
	}
	return nil
}

// removeDependents drops child rows and referencing records from the copy.
func (g *Gateway) removeDependents(doc *document.Document, spec *schema.TableSpec, target document.Record) {
	for _, rel := range spec.Children {
		parentKey := target[rel.ParentKey]
		doc.SetTable(rel.Table, reject(doc.Table(rel.Table), func(r document.Record) bool {
			return sameKey(r[rel.ForeignKey], parentKey)
		}))
	}
	for _, ref := range spec.References {
		via := target[ref.Via]
		doc.SetTable(ref.Table, reject(doc.Table(ref.Table), func(r document.Record) bool {
			return sameCode(r[ref.Field], via)
		}))
	}
}

func reject(records []document.Record, drop func(document.Record) bool) []document.Record {
	out := make([]document.Record, 0, len(records))
	for _, r := range records {
		if !drop(r) {
			out = append(out, r)
		}
	}
	return out
}

// findRecord locates a record by key: exact match on the id field, else
// case-insensitive match on the code field.
func findRecord(records []document.Record, idField, codeField, key string) int {
	for i, r := range records {
		if valueKey(r[idField]) == key {
			return i
		}
	}
	for i, r := range records {
		if strings.EqualFold(valueKey(r[codeField]), key) {
			return i
		}
	}
	return -1
}

func sameKey(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return valueKey(a) == valueKey(b)
}

// sameCode compares code values case-insensitively.
func sameCode(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	return strings.EqualFold(valueKey(a), valueKey(b))
}

func valueKey(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
