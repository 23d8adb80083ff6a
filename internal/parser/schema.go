package parser

import (
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

// schemaCUE is the type-level schema for a raw guideline document.
// Structural rules that need precise diagnostics (duplicate ids, undefined
// component references, status values) are checked in Go; the CUE gate rejects
// shape defects like wrong field types before unmarshaling.
const schemaCUE = `
#TestSpec: {
	name: string
	aliases?: [...string]
	flagged?: bool
}

#Capability: {
	id:     string
	status: string
	tests: [...#TestSpec]
}

#Component: {
	name: string
	capabilities: [...#Capability]
}

version: string
components: [...#Component]
targets: [string]: [...string]
`

// checkSchema validates raw JSON against the guideline CUE schema.
// Returns one ValidationError per schema defect, or a single E001 error when
// the input is not valid JSON at all.
func checkSchema(raw []byte) []ValidationError {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		// Embedded schema is a compile-time constant; failing to build it is
		// a programming error, not an input defect.
		panic("guideline schema does not compile: " + err.Error())
	}

	expr, err := cuejson.Extract("guideline.json", raw)
	if err != nil {
		return []ValidationError{{
			Field:   "document",
			Message: "input is not valid JSON: " + err.Error(),
			Code:    ErrGenericParse,
		}}
	}

	data := ctx.BuildExpr(expr)
	if err := data.Err(); err != nil {
		return []ValidationError{{
			Field:   "document",
			Message: "input could not be built: " + err.Error(),
			Code:    ErrGenericParse,
		}}
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var errs []ValidationError
		for _, e := range cueerrors.Errors(err) {
			field := strings.Join(pathStrings(e.Path()), ".")
			if field == "" {
				field = "document"
			}
			errs = append(errs, ValidationError{
				Field:   field,
				Message: e.Error(),
				Code:    ErrSchemaMismatch,
			})
		}
		return errs
	}

	return nil
}

func pathStrings(path []string) []string {
	out := make([]string, 0, len(path))
	for _, p := range path {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
