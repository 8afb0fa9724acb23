package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/brianmacy/szconfigtool/internal/document"
)

// Normalize converts a raw internal value to its public form for a field
// kind. Raw values come from decoded JSON, so numbers arrive as json.Number.
func Normalize(kind Kind, raw any) any {
	switch kind {
	case KindInt:
		return toInt64(raw)
	case KindYesNo:
		if toBool(raw) {
			return "Yes"
		}
		return "No"
	case KindAny:
		return raw
	default: // KindString
		return toString(raw)
	}
}

// Zero is the public value substituted when the raw field is absent.
// Renderers can rely on every mapped field being present.
func Zero(kind Kind) any {
	switch kind {
	case KindInt:
		return int64(0)
	case KindYesNo:
		return "No"
	case KindAny:
		return nil
	default:
		return ""
	}
}

// Denormalize converts a public value back to the canonical internal wire
// form. It is the inverse of Normalize over canonical documents: integers
// become json.Number, yes/no flags become the "Yes"/"No" literals the engine
// stores.
func Denormalize(kind Kind, public any) (any, error) {
	switch kind {
	case KindInt:
		switch v := public.(type) {
		case int64:
			return json.Number(strconv.FormatInt(v, 10)), nil
		case int:
			return json.Number(strconv.Itoa(v)), nil
		case json.Number:
			if _, err := v.Int64(); err != nil {
				return nil, fmt.Errorf("not an integer: %v", v)
			}
			return v, nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("not an integer: %v", v)
			}
			return json.Number(strconv.FormatInt(int64(v), 10)), nil
		case string:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return nil, fmt.Errorf("not an integer: %q", v)
			}
			return json.Number(v), nil
		default:
			return nil, fmt.Errorf("not an integer: %v", public)
		}
	case KindYesNo:
		if toBool(public) {
			return "Yes", nil
		}
		return "No", nil
	case KindAny:
		return public, nil
	default:
		return toString(public), nil
	}
}

// Invert translates a public-vocabulary record back into an internal-schema
// record for this table. Public fields outside the mapping are rejected so
// typos surface instead of silently dropping edits. Child list fields are
// not invertible here; children are mutated through their own table.
func (t *TableSpec) Invert(public map[string]any) (document.Record, error) {
	out := make(document.Record, len(public))
	for name, value := range public {
		f, ok := t.InternalField(name)
		if !ok {
			if t.isChildField(name) {
				continue
			}
			return nil, fmt.Errorf("table %s: unknown field %q", t.Name, name)
		}
		internal, err := Denormalize(f.Kind, value)
		if err != nil {
			return nil, fmt.Errorf("table %s: field %s: %w", t.Name, name, err)
		}
		out[f.Internal] = internal
	}
	return out, nil
}

func (t *TableSpec) isChildField(name string) bool {
	for _, c := range t.Children {
		if c.Public == name {
			return true
		}
	}
	return false
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		if n != math.Trunc(n) {
			return 0
		}
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func toBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(b) {
		case "yes", "y", "true", "1":
			return true
		}
		return false
	case json.Number:
		i, _ := b.Int64()
		return i != 0
	case int64:
		return b != 0
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
