package view

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// fold case-folds a string for caseless matching. A fresh caser per call:
// cases.Caser carries internal state and is not safe to share.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Filter keeps the records whose public values contain the expression as a
// case-folded substring. Nested child records are part of the match surface.
// An empty expression matches everything. Input order is preserved.
func Filter(records []*ProjectedRecord, expression string) []*ProjectedRecord {
	if expression == "" {
		return records
	}
	needle := fold(expression)

	out := make([]*ProjectedRecord, 0, len(records))
	for _, rec := range records {
		if recordMatches(rec, needle) {
			out = append(out, rec)
		}
	}
	return out
}

func recordMatches(rec *ProjectedRecord, needle string) bool {
	for _, field := range rec.Fields() {
		value, _ := rec.Get(field)
		if valueMatches(value, needle) {
			return true
		}
	}
	return false
}

func valueMatches(value any, needle string) bool {
	switch v := value.(type) {
	case []*ProjectedRecord:
		for _, child := range v {
			if recordMatches(child, needle) {
				return true
			}
		}
		return false
	default:
		return strings.Contains(fold(stringify(value)), needle)
	}
}

// stringify renders a public value the way the renderer shows it, so the
// filter matches what the user sees.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// keyString stringifies a key value for equality comparison across the raw
// forms a key can arrive in (json.Number vs string).
func keyString(value any) string {
	return stringify(value)
}
