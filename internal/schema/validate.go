package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/brianmacy/szconfigtool/internal/document"
)

//go:embed constraints.cue
var constraintsCUE string

var (
	constraintsOnce sync.Once
	constraintsCtx  *cue.Context
	constraintsVal  cue.Value
)

func constraints() (*cue.Context, cue.Value) {
	constraintsOnce.Do(func() {
		constraintsCtx = cuecontext.New()
		constraintsVal = constraintsCtx.CompileString(constraintsCUE)
		if err := constraintsVal.Err(); err != nil {
			panic(fmt.Sprintf("embedded constraints invalid: %v", err))
		}
	})
	return constraintsCtx, constraintsVal
}

// Validate checks an internal-schema record against the table's declared
// constraints by CUE unification. A table with no declared constraints
// passes trivially. The returned error carries the CUE diagnostic.
func Validate(table string, record document.Record) error {
	ctx, root := constraints()

	spec := root.LookupPath(cue.ParsePath(table))
	if !spec.Exists() {
		return nil
	}

	// Records are plain decoded JSON; re-encoding gives CUE a literal it
	// can unify with the constraint struct (JSON is a subset of CUE).
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record for validation: %w", err)
	}
	rec := ctx.CompileBytes(data)
	if err := rec.Err(); err != nil {
		return fmt.Errorf("compile record for validation: %w", err)
	}

	unified := spec.Unify(rec)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("table %s: %w", table, err)
	}
	return nil
}
