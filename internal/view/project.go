package view

import (
	"sort"

	"github.com/brianmacy/szconfigtool/internal/document"
	"github.com/brianmacy/szconfigtool/internal/schema"
)

// Projector renders raw tables through a field mapping registry.
type Projector struct {
	registry *schema.Registry
}

// NewProjector binds a projector to a mapping registry.
func NewProjector(registry *schema.Registry) *Projector {
	return &Projector{registry: registry}
}

// Project renders every record of a table into the public vocabulary.
// Unknown table names fail with schema.UnknownEntityError. A table the
// mapping knows but the document lacks projects to an empty sequence.
func (p *Projector) Project(doc *document.Document, table string) ([]*ProjectedRecord, error) {
	spec, err := p.registry.Lookup(table)
	if err != nil {
		return nil, err
	}

	raw := doc.Table(table)
	out := make([]*ProjectedRecord, 0, len(raw))
	for _, rec := range raw {
		out = append(out, p.projectRecord(doc, spec, rec))
	}
	return out, nil
}

// ProjectRecord renders a single raw record for a table.
func (p *Projector) ProjectRecord(doc *document.Document, table string, rec document.Record) (*ProjectedRecord, error) {
	spec, err := p.registry.Lookup(table)
	if err != nil {
		return nil, err
	}
	return p.projectRecord(doc, spec, rec), nil
}

func (p *Projector) projectRecord(doc *document.Document, spec *schema.TableSpec, rec document.Record) *ProjectedRecord {
	out := NewProjectedRecord()
	for _, f := range spec.Fields {
		raw, ok := rec[f.Internal]
		if !ok || raw == nil {
			out.Set(f.Public, schema.Zero(f.Kind))
			continue
		}
		out.Set(f.Public, schema.Normalize(f.Kind, raw))
	}
	for _, child := range spec.Children {
		out.Set(child.Public, p.projectChildren(doc, spec, child, rec))
	}
	return out
}

// projectChildren projects the child rows whose foreign key matches the
// parent, ordered by the child's order field ascending, ties by child id.
func (p *Projector) projectChildren(doc *document.Document, parent *schema.TableSpec, rel schema.ChildRelation, rec document.Record) []*ProjectedRecord {
	childSpec, err := p.registry.Lookup(rel.Table)
	if err != nil {
		// Load verified child tables resolve; an unmapped child here is
		// unreachable.
		return nil
	}

	parentKey, ok := rec[rel.ParentKey]
	if !ok {
		return []*ProjectedRecord{}
	}
	want := keyString(parentKey)

	var matched []document.Record
	for _, child := range doc.Table(rel.Table) {
		if keyString(child[rel.ForeignKey]) == want {
			matched = append(matched, child)
		}
	}

	childID := childSpec.InternalIDField()
	sort.SliceStable(matched, func(i, j int) bool {
		oi, oj := intField(matched[i], rel.OrderField), intField(matched[j], rel.OrderField)
		if oi != oj {
			return oi < oj
		}
		return intField(matched[i], childID) < intField(matched[j], childID)
	})

	out := make([]*ProjectedRecord, len(matched))
	for i, child := range matched {
		out[i] = p.projectRecord(doc, childSpec, child)
	}
	return out
}

func intField(rec document.Record, field string) int64 {
	v, ok := rec[field]
	if !ok {
		return 0
	}
	n, _ := schema.Normalize(schema.KindInt, v).(int64)
	return n
}
