package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianmacy/szconfigtool/internal/engine"
)

const testConfig = `{
	"CFG_DSRC": [
		{"DSRC_ID": 1, "DSRC_CODE": "CUSTOMERS", "DSRC_DESC": "Customer master"},
		{"DSRC_ID": 2, "DSRC_CODE": "WATCHLIST", "DSRC_DESC": "Sanctions"}
	]
}`

// seedDB creates a configuration database preloaded with testConfig.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.db")
	eng, err := engine.Open(path)
	require.NoError(t, err)
	defer eng.Close()
	require.NoError(t, eng.Seed([]byte(testConfig)))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTables(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "CFG_DSRC")
	assert.Contains(t, out, "CFG_FTYPE")
}

func TestList_Text(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "list", "CFG_DSRC")
	require.NoError(t, err)
	assert.Contains(t, out, "dataSource")
	assert.Contains(t, out, "CUSTOMERS")
	assert.Contains(t, out, "WATCHLIST")
}

func TestList_JSONFiltered(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "--format", "json", "list", "CFG_DSRC", "--filter", "sanctions")
	require.NoError(t, err)
	assert.Contains(t, out, `"status":"ok"`)
	assert.Contains(t, out, `"dataSource":"WATCHLIST"`)
	assert.NotContains(t, out, "CUSTOMERS")
}

func TestList_UnknownTable(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "list", "CFG_BOGUS")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "UNKNOWN_ENTITY")
}

func TestGet_ByCode(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "get", "CFG_DSRC", "CUSTOMERS")
	require.NoError(t, err)
	assert.Contains(t, out, "dataSource: CUSTOMERS")
	assert.Contains(t, out, "id: 1")
}

func TestGet_NotFound(t *testing.T) {
	db := seedDB(t)
	out, err := run(t, "--db", db, "get", "CFG_DSRC", "MISSING")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "NOT_FOUND")
}

func TestAddThenList(t *testing.T) {
	db := seedDB(t)

	_, err := run(t, "--db", db, "add", "CFG_DSRC", `{"id": 3, "dataSource": "REFERENCE"}`)
	require.NoError(t, err)

	out, err := run(t, "--db", db, "list", "CFG_DSRC")
	require.NoError(t, err)
	assert.Contains(t, out, "REFERENCE")
}

func TestAdd_DuplicateFails(t *testing.T) {
	db := seedDB(t)

	out, err := run(t, "--db", db, "add", "CFG_DSRC", `{"id": 9, "dataSource": "CUSTOMERS"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "VALIDATION_FAILURE")
}

func TestAdd_FractionalIDRejected(t *testing.T) {
	db := seedDB(t)

	out, err := run(t, "--db", db, "add", "CFG_DSRC", `{"id": 1.7, "dataSource": "FRACTION"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "VALIDATION_FAILURE")

	// Nothing was written through: no truncated id, no new record.
	out, err = run(t, "--db", db, "list", "CFG_DSRC")
	require.NoError(t, err)
	assert.NotContains(t, out, "FRACTION")
}

func TestAdd_MalformedPayload(t *testing.T) {
	db := seedDB(t)

	_, err := run(t, "--db", db, "add", "CFG_DSRC", `not json`)
	require.Error(t, err)
}

func TestUpdateThenGet(t *testing.T) {
	db := seedDB(t)

	_, err := run(t, "--db", db, "update", "CFG_DSRC", "WATCHLIST", `{"description": "OFAC"}`)
	require.NoError(t, err)

	out, err := run(t, "--db", db, "get", "CFG_DSRC", "WATCHLIST")
	require.NoError(t, err)
	assert.Contains(t, out, "description: OFAC")
}

func TestDelete(t *testing.T) {
	db := seedDB(t)

	_, err := run(t, "--db", db, "delete", "CFG_DSRC", "WATCHLIST")
	require.NoError(t, err)

	out, err := run(t, "--db", db, "list", "CFG_DSRC")
	require.NoError(t, err)
	assert.NotContains(t, out, "WATCHLIST")
}

func TestSaveLoadSnapshots(t *testing.T) {
	db := seedDB(t)

	out, err := run(t, "--db", db, "--format", "json", "save", "--comment", "baseline")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		Data   map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	id := resp.Data["config_id"]
	require.NotEmpty(t, id)

	out, err = run(t, "--db", db, "snapshots")
	require.NoError(t, err)
	assert.Contains(t, out, "baseline")

	// Edit, then restore the snapshot; the edit is rolled back.
	_, err = run(t, "--db", db, "delete", "CFG_DSRC", "WATCHLIST")
	require.NoError(t, err)

	_, err = run(t, "--db", db, "load", id)
	require.NoError(t, err)

	out, err = run(t, "--db", db, "list", "CFG_DSRC")
	require.NoError(t, err)
	assert.Contains(t, out, "WATCHLIST")
}
