package view

import (
	"sort"
	"strconv"
	"strings"

	"github.com/brianmacy/szconfigtool/internal/schema"
)

// SortByID orders records by the table's designated id field ascending as an
// integer. Records whose id does not parse as an integer, and ties, fall
// back to case-insensitive ordering on the designated code field. The sort
// is stable: equal keys keep their input order.
func SortByID(records []*ProjectedRecord, spec *schema.TableSpec) []*ProjectedRecord {
	out := make([]*ProjectedRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		idI, okI := numericID(out[i], spec.IDField)
		idJ, okJ := numericID(out[j], spec.IDField)
		switch {
		case okI && okJ:
			if idI != idJ {
				return idI < idJ
			}
			return codeLess(out[i], out[j], spec.CodeField)
		case okI:
			// Numeric ids sort ahead of non-numeric ones.
			return true
		case okJ:
			return false
		default:
			return codeLess(out[i], out[j], spec.CodeField)
		}
	})
	return out
}

func numericID(rec *ProjectedRecord, field string) (int64, bool) {
	v, ok := rec.Get(field)
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func codeLess(a, b *ProjectedRecord, field string) bool {
	va, _ := a.Get(field)
	vb, _ := b.Get(field)
	return strings.ToLower(stringify(va)) < strings.ToLower(stringify(vb))
}
