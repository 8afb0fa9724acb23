package schema

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed mappings.yaml
var mappingsYAML []byte

// Kind is the value kind of a mapped field. It drives both the raw->public
// transform and the zero value substituted for missing raw fields.
type Kind string

const (
	// KindString renders the raw value as a string; missing -> "".
	KindString Kind = "string"
	// KindInt renders the raw value as an int64; missing -> 0.
	KindInt Kind = "int"
	// KindYesNo renders a boolean-ish raw value as "Yes"/"No"; missing -> "No".
	KindYesNo Kind = "yesno"
	// KindAny passes the raw value through untouched.
	KindAny Kind = "any"
)

// FieldSpec is one internal->public field correspondence.
type FieldSpec struct {
	Internal string `yaml:"internal"`
	Public   string `yaml:"public"`
	Kind     Kind   `yaml:"kind"`
}

// ChildRelation declares a nested child table attached to each parent record
// under a public list field, ordered by the child's order field.
type ChildRelation struct {
	Table      string `yaml:"table"`
	ParentKey  string `yaml:"parent_key"`  // internal field on the parent
	ForeignKey string `yaml:"foreign_key"` // internal field on the child
	OrderField string `yaml:"order_field"` // internal field on the child
	Public     string `yaml:"public"`
}

// Reference declares a dependent relation that blocks deletion: a record in
// Table whose Field equals the deleted record's Via field value.
type Reference struct {
	Table string `yaml:"table"`
	Field string `yaml:"field"`
	Via   string `yaml:"via"` // internal field on the owning table
}

// TableSpec is the full declarative mapping for one configuration table.
type TableSpec struct {
	Name       string          `yaml:"name"`
	IDField    string          `yaml:"id_field"`   // public name
	CodeField  string          `yaml:"code_field"` // public name
	Mutable    bool            `yaml:"mutable"`
	Fields     []FieldSpec     `yaml:"fields"`
	Children   []ChildRelation `yaml:"children"`
	References []Reference     `yaml:"references"`
}

// InternalField returns the internal name backing a public field name.
func (t *TableSpec) InternalField(public string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Public == public {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// InternalIDField returns the internal name of the designated id field.
func (t *TableSpec) InternalIDField() string {
	f, _ := t.InternalField(t.IDField)
	return f.Internal
}

// InternalCodeField returns the internal name of the designated code field.
func (t *TableSpec) InternalCodeField() string {
	f, _ := t.InternalField(t.CodeField)
	return f.Internal
}

// UnknownEntityError reports a table name the mapping table does not know.
type UnknownEntityError struct {
	Table string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown entity: %s", e.Table)
}

// Registry is the loaded, immutable field mapping table.
type Registry struct {
	tables map[string]*TableSpec
	order  []string
}

// Load parses a mapping table and verifies its invariants:
// raw->public bijectivity per table, id/code fields present, child and
// reference targets resolvable.
func Load(raw []byte) (*Registry, error) {
	var file struct {
		Tables []*TableSpec `yaml:"tables"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse mapping table: %w", err)
	}

	reg := &Registry{tables: make(map[string]*TableSpec, len(file.Tables))}
	for _, t := range file.Tables {
		if _, dup := reg.tables[t.Name]; dup {
			return nil, fmt.Errorf("table %s: declared twice", t.Name)
		}
		if err := checkBijective(t); err != nil {
			return nil, err
		}
		if _, ok := t.InternalField(t.IDField); !ok {
			return nil, fmt.Errorf("table %s: id_field %q not in field list", t.Name, t.IDField)
		}
		if _, ok := t.InternalField(t.CodeField); !ok {
			return nil, fmt.Errorf("table %s: code_field %q not in field list", t.Name, t.CodeField)
		}
		reg.tables[t.Name] = t
		reg.order = append(reg.order, t.Name)
	}

	// Child and reference targets must themselves be mapped tables.
	for _, t := range file.Tables {
		for _, c := range t.Children {
			if _, ok := reg.tables[c.Table]; !ok {
				return nil, fmt.Errorf("table %s: child table %s not mapped", t.Name, c.Table)
			}
		}
		for _, r := range t.References {
			if _, ok := reg.tables[r.Table]; !ok {
				return nil, fmt.Errorf("table %s: reference table %s not mapped", t.Name, r.Table)
			}
		}
	}
	return reg, nil
}

// checkBijective rejects duplicate internal or public names within a table.
// Duplicates would make projection ambiguous or irreversible.
func checkBijective(t *TableSpec) error {
	internals := make(map[string]bool, len(t.Fields))
	publics := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		if internals[f.Internal] {
			return fmt.Errorf("table %s: internal field %s mapped twice", t.Name, f.Internal)
		}
		if publics[f.Public] {
			return fmt.Errorf("table %s: public field %s mapped twice", t.Name, f.Public)
		}
		internals[f.Internal] = true
		publics[f.Public] = true
		switch f.Kind {
		case KindString, KindInt, KindYesNo, KindAny:
		default:
			return fmt.Errorf("table %s: field %s: unknown kind %q", t.Name, f.Internal, f.Kind)
		}
	}
	return nil
}

// Lookup returns the spec for a table name.
func (r *Registry) Lookup(table string) (*TableSpec, error) {
	t, ok := r.tables[table]
	if !ok {
		return nil, &UnknownEntityError{Table: table}
	}
	return t, nil
}

// TableNames returns all mapped table names in declaration order.
func (r *Registry) TableNames() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

var defaultRegistry = mustLoad()

func mustLoad() *Registry {
	reg, err := Load(mappingsYAML)
	if err != nil {
		// The embedded table ships with the binary; a bad one is a build
		// defect, not runtime input.
		panic(fmt.Sprintf("embedded mapping table invalid: %v", err))
	}
	return reg
}

// Default returns the registry loaded from the embedded mapping table.
func Default() *Registry {
	return defaultRegistry
}
