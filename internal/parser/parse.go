package parser

import (
	"encoding/json"

	"github.com/pvaneck/refstack/internal/guideline"
)

// Parse converts raw guideline content into an immutable Document.
//
// The raw bytes must be a JSON document conforming to the guideline schema.
// On any defect Parse returns a *MalformedGuidelineError listing every
// problem found with a field path; no document is returned. Parse performs
// no I/O and never substitutes defaults for malformed fields.
func Parse(raw []byte) (*guideline.Document, error) {
	if errs := checkSchema(raw); len(errs) > 0 {
		return nil, &MalformedGuidelineError{Errors: errs}
	}

	var doc guideline.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		// The schema gate accepts anything json.Unmarshal would; reaching
		// this branch means the two disagree on an edge the schema missed.
		return nil, &MalformedGuidelineError{Errors: []ValidationError{{
			Field:   "document",
			Message: "failed to decode guideline: " + err.Error(),
			Code:    ErrGenericParse,
		}}}
	}

	if errs := validateDocument(&doc); len(errs) > 0 {
		return nil, &MalformedGuidelineError{Errors: errs}
	}

	return &doc, nil
}
