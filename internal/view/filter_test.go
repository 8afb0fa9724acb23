package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacy/szconfigtool/internal/schema"
)

func projectFixture(t *testing.T, payload, table string) []*ProjectedRecord {
	t.Helper()
	records, err := NewProjector(schema.Default()).Project(decode(t, payload), table)
	require.NoError(t, err)
	return records
}

const dsrcFixture = `{"CFG_DSRC":[
	{"DSRC_ID": 1, "DSRC_CODE": "CUSTOMERS", "DSRC_DESC": "Customer master"},
	{"DSRC_ID": 2, "DSRC_CODE": "WATCHLIST", "DSRC_DESC": "Sanctions"},
	{"DSRC_ID": 3, "DSRC_CODE": "REFERENCE", "DSRC_DESC": "Vendor reference data"}
]}`

func TestFilter_CaseInsensitiveSubstring(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")

	got := Filter(records, "customers")
	require.Len(t, got, 1)
	code, _ := got[0].Get("dataSource")
	assert.Equal(t, "CUSTOMERS", code)

	got = Filter(records, "CuStOmEr")
	assert.Len(t, got, 1)
}

func TestFilter_MatchesAnyField(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")

	// Matches the description, not the code.
	got := Filter(records, "sanctions")
	require.Len(t, got, 1)
	code, _ := got[0].Get("dataSource")
	assert.Equal(t, "WATCHLIST", code)

	// Numbers are stringified for matching.
	got = Filter(records, "3")
	require.Len(t, got, 1)
	code, _ = got[0].Get("dataSource")
	assert.Equal(t, "REFERENCE", code)
}

func TestFilter_EmptyMatchesAllInOrder(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")

	got := Filter(records, "")
	require.Len(t, got, 3)
	for i := range records {
		assert.Same(t, records[i], got[i])
	}
}

func TestFilter_Idempotent(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")

	once := Filter(records, "reference")
	twice := Filter(once, "reference")
	assert.Equal(t, once, twice)
}

func TestFilter_StablePreservesInputOrder(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")

	// "e" appears in all three codes; order must be untouched.
	got := Filter(records, "e")
	require.Len(t, got, 3)
	for i := range records {
		assert.Same(t, records[i], got[i])
	}
}

func TestFilter_NoMatch(t *testing.T) {
	records := projectFixture(t, dsrcFixture, "CFG_DSRC")
	assert.Empty(t, Filter(records, "zzz-no-such-value"))
}

func TestFilter_SearchesNestedChildren(t *testing.T) {
	records := projectFixture(t, `{
		"CFG_FTYPE": [
			{"FTYPE_ID": 1, "FTYPE_CODE": "NAME", "FTYPE_FREQ": "NAME"},
			{"FTYPE_ID": 2, "FTYPE_CODE": "PHONE", "FTYPE_FREQ": "FF"}
		],
		"CFG_FBOM": [
			{"FTYPE_ID": 2, "FELEM_ID": 5, "EXEC_ORDER": 1, "DISPLAY_DELIM": "tokenized"}
		]
	}`, "CFG_FTYPE")

	got := Filter(records, "tokenized")
	require.Len(t, got, 1)
	code, _ := got[0].Get("feature")
	assert.Equal(t, "PHONE", code)
}
