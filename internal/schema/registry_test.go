package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedTable(t *testing.T) {
	reg := Default()

	spec, err := reg.Lookup("CFG_DSRC")
	require.NoError(t, err)
	assert.Equal(t, "id", spec.IDField)
	assert.Equal(t, "dataSource", spec.CodeField)
	assert.True(t, spec.Mutable)
	assert.Equal(t, "DSRC_ID", spec.InternalIDField())
	assert.Equal(t, "DSRC_CODE", spec.InternalCodeField())

	feature, err := reg.Lookup("CFG_FTYPE")
	require.NoError(t, err)
	require.Len(t, feature.Children, 1)
	assert.Equal(t, "CFG_FBOM", feature.Children[0].Table)
	assert.Equal(t, "elementList", feature.Children[0].Public)
	assert.NotEmpty(t, feature.References)

	fclass, err := reg.Lookup("CFG_FCLASS")
	require.NoError(t, err)
	assert.False(t, fclass.Mutable)
}

func TestLookup_UnknownEntity(t *testing.T) {
	_, err := Default().Lookup("CFG_NOPE")
	require.Error(t, err)

	var unknown *UnknownEntityError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "CFG_NOPE", unknown.Table)
}

func TestLoad_RejectsDuplicatePublicName(t *testing.T) {
	_, err := Load([]byte(`
tables:
  - name: T
    id_field: id
    code_field: id
    mutable: true
    fields:
      - {internal: A_ID, public: id, kind: int}
      - {internal: A_CODE, public: id, kind: string}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped twice")
}

func TestLoad_RejectsDuplicateInternalName(t *testing.T) {
	_, err := Load([]byte(`
tables:
  - name: T
    id_field: id
    code_field: code
    mutable: true
    fields:
      - {internal: A_ID, public: id, kind: int}
      - {internal: A_ID, public: code, kind: string}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mapped twice")
}

func TestLoad_RejectsMissingIDField(t *testing.T) {
	_, err := Load([]byte(`
tables:
  - name: T
    id_field: id
    code_field: code
    mutable: true
    fields:
      - {internal: A_CODE, public: code, kind: string}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id_field")
}

func TestLoad_RejectsUnknownKind(t *testing.T) {
	_, err := Load([]byte(`
tables:
  - name: T
    id_field: id
    code_field: id
    mutable: true
    fields:
      - {internal: A_ID, public: id, kind: float}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestLoad_RejectsUnmappedChildTable(t *testing.T) {
	_, err := Load([]byte(`
tables:
  - name: T
    id_field: id
    code_field: id
    mutable: true
    fields:
      - {internal: A_ID, public: id, kind: int}
    children:
      - {table: MISSING, parent_key: A_ID, foreign_key: A_ID, order_field: ORD, public: kids}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not mapped")
}

func TestBijectivity_AllEmbeddedTables(t *testing.T) {
	// The loader enforces bijectivity; this guards the embedded table
	// against regressions when fields are added.
	reg := Default()
	for _, name := range reg.TableNames() {
		spec, err := reg.Lookup(name)
		require.NoError(t, err)

		publics := make(map[string]string)
		for _, f := range spec.Fields {
			prev, dup := publics[f.Public]
			assert.Falsef(t, dup, "table %s: public %s maps from %s and %s", name, f.Public, prev, f.Internal)
			publics[f.Public] = f.Internal
		}
	}
}
