package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Record is a single flat configuration record in the engine's internal
// schema (internal field names, scalar or nested values as decoded JSON).
type Record = map[string]any

// Document is the full hierarchical configuration: table name to ordered
// record sequence. The zero value is an empty document.
type Document struct {
	tables map[string][]Record
	order  []string // table insertion order, preserved through Encode
}

// New returns an empty document.
func New() *Document {
	return &Document{tables: make(map[string][]Record)}
}

// Decode parses an engine configuration payload.
//
// The payload must be a JSON object whose values are arrays of objects.
// Anything else is a malformed document; callers surface that as a fetch
// failure. Numbers decode via json.Number so integer ids survive the trip
// without float rounding.
func Decode(payload []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	doc := New()
	for _, name := range sortedKeys(raw) {
		tdec := json.NewDecoder(bytes.NewReader(raw[name]))
		tdec.UseNumber()
		var records []Record
		if err := tdec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode table %s: %w", name, err)
		}
		doc.SetTable(name, records)
	}
	return doc, nil
}

// Encode serializes the document back to the engine wire format.
// Tables appear in their insertion order.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		records := d.tables[name]
		if records == nil {
			records = []Record{}
		}
		body, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("encode table %s: %w", name, err)
		}
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table returns the ordered records of a table. Returns nil if the table is
// absent; an absent table and an empty table are distinct on the wire.
func (d *Document) Table(name string) []Record {
	return d.tables[name]
}

// HasTable reports whether the document carries the named table at all.
func (d *Document) HasTable(name string) bool {
	_, ok := d.tables[name]
	return ok
}

// SetTable replaces (or appends) a table's record sequence.
func (d *Document) SetTable(name string, records []Record) {
	if _, ok := d.tables[name]; !ok {
		d.order = append(d.order, name)
	}
	d.tables[name] = records
}

// TableNames returns the table names in document order.
func (d *Document) TableNames() []string {
	return slices.Clone(d.order)
}

// Copy returns a deep copy of the document. Mutations always operate on a
// copy; the live cached document is never modified in place.
func (d *Document) Copy() *Document {
	out := New()
	for _, name := range d.order {
		records := make([]Record, len(d.tables[name]))
		for i, r := range d.tables[name] {
			records[i] = copyRecord(r)
		}
		out.SetTable(name, records)
	}
	return out
}

func copyRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyRecord(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		// Scalars (string, json.Number, bool, nil) are immutable.
		return v
	}
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
