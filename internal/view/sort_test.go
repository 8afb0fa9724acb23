package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacy/szconfigtool/internal/schema"
)

func dsrcSpec(t *testing.T) *schema.TableSpec {
	t.Helper()
	spec, err := schema.Default().Lookup("CFG_DSRC")
	require.NoError(t, err)
	return spec
}

func makeRecord(id any, code string) *ProjectedRecord {
	rec := NewProjectedRecord()
	rec.Set("id", id)
	rec.Set("dataSource", code)
	return rec
}

func codes(records []*ProjectedRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		v, _ := r.Get("dataSource")
		out[i] = v.(string)
	}
	return out
}

func TestSortByID_NumericAscending(t *testing.T) {
	records := []*ProjectedRecord{
		makeRecord(int64(30), "C"),
		makeRecord(int64(10), "A"),
		makeRecord(int64(20), "B"),
	}

	got := SortByID(records, dsrcSpec(t))
	assert.Equal(t, []string{"A", "B", "C"}, codes(got))

	// Input order untouched.
	first, _ := records[0].Get("dataSource")
	assert.Equal(t, "C", first)
}

func TestSortByID_TiesBreakByCode(t *testing.T) {
	records := []*ProjectedRecord{
		makeRecord(int64(1), "ZEBRA"),
		makeRecord(int64(1), "apple"),
		makeRecord(int64(1), "Mango"),
	}

	got := SortByID(records, dsrcSpec(t))
	assert.Equal(t, []string{"apple", "Mango", "ZEBRA"}, codes(got))
}

func TestSortByID_NonNumericFallsBackToCode(t *testing.T) {
	records := []*ProjectedRecord{
		makeRecord("n/a", "DELTA"),
		makeRecord("n/a", "alpha"),
		makeRecord("n/a", "Charlie"),
	}

	got := SortByID(records, dsrcSpec(t))
	assert.Equal(t, []string{"alpha", "Charlie", "DELTA"}, codes(got))
}

func TestSortByID_NumericBeforeNonNumeric(t *testing.T) {
	records := []*ProjectedRecord{
		makeRecord("n/a", "TEXTID"),
		makeRecord(int64(5), "NUMERIC"),
	}

	got := SortByID(records, dsrcSpec(t))
	assert.Equal(t, []string{"NUMERIC", "TEXTID"}, codes(got))
}

func TestSortByID_Stable(t *testing.T) {
	a := makeRecord(int64(1), "SAME")
	b := makeRecord(int64(1), "SAME")
	got := SortByID([]*ProjectedRecord{a, b}, dsrcSpec(t))
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])
}

func TestSortByID_StringIDsParseAsNumbers(t *testing.T) {
	records := []*ProjectedRecord{
		makeRecord("10", "TEN"),
		makeRecord("2", "TWO"),
	}

	got := SortByID(records, dsrcSpec(t))
	assert.Equal(t, []string{"TWO", "TEN"}, codes(got))
}
