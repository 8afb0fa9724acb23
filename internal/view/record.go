package view

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ProjectedRecord is an ordered public-vocabulary record. Field order is the
// mapping's declared order; JSON marshalling preserves it.
type ProjectedRecord struct {
	fields []string
	values map[string]any
}

// NewProjectedRecord returns an empty record.
func NewProjectedRecord() *ProjectedRecord {
	return &ProjectedRecord{values: make(map[string]any)}
}

// Set appends or replaces a field. First Set of a name fixes its position.
func (r *ProjectedRecord) Set(name string, value any) {
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Get returns a field value; ok is false for fields never set.
func (r *ProjectedRecord) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Fields returns the field names in declared order.
func (r *ProjectedRecord) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields.
func (r *ProjectedRecord) Len() int {
	return len(r.fields)
}

// Map returns the record as a plain map (field order lost). Used when
// handing an edited record back through the inverse mapping.
func (r *ProjectedRecord) Map() map[string]any {
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		v := r.values[f]
		if children, ok := v.([]*ProjectedRecord); ok {
			list := make([]map[string]any, len(children))
			for i, c := range children {
				list[i] = c.Map()
			}
			out[f] = list
			continue
		}
		out[f] = v
	}
	return out
}

// MarshalJSON emits fields in declared order.
func (r *ProjectedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
