package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pvaneck/refstack/internal/guideline"
)

// Validation error codes (E100-E199)
const (
	ErrGenericParse = "E001" // input is not a structured document at all

	// Schema-level errors (E100)
	ErrSchemaMismatch = "E100" // raw input does not satisfy the guideline schema

	// Document errors (E101-E109)
	ErrMissingVersion      = "E101" // version is required
	ErrNoComponents        = "E102" // at least one component required
	ErrMissingTargets      = "E103" // targets mapping is required
	ErrInvalidStatus       = "E104" // unrecognized capability status
	ErrDuplicateCapability = "E105" // duplicate capability id
	ErrUndefinedComponent  = "E106" // target references undefined component
	ErrDuplicateEvidence   = "E107" // duplicate evidence identifier in one capability
	ErrEmptyTestName       = "E108" // test spec has empty primary identifier
	ErrDuplicateComponent  = "E109" // duplicate component name
)

// ValidationError represents one structural defect in a guideline document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// MalformedGuidelineError reports every structural defect found in a raw
// guideline document. Parsing never partially constructs a usable document:
// any defect means no document.
type MalformedGuidelineError struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *MalformedGuidelineError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "malformed guideline"
	case 1:
		return fmt.Sprintf("malformed guideline: %s", e.Errors[0].Error())
	default:
		return fmt.Sprintf("malformed guideline: %s (and %d more)",
			e.Errors[0].Error(), len(e.Errors)-1)
	}
}

// IsMalformed reports whether err is (or wraps) a MalformedGuidelineError.
func IsMalformed(err error) bool {
	var me *MalformedGuidelineError
	return errors.As(err, &me)
}

// validateDocument runs all structural checks over an unmarshaled document.
// Returns all errors found (does not fail-fast).
func validateDocument(doc *guideline.Document) []ValidationError {
	var errs []ValidationError

	// E101: version is required
	if strings.TrimSpace(doc.Version) == "" {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: "version is required and must be non-empty",
			Code:    ErrMissingVersion,
		})
	}

	// E102: at least one component required
	if len(doc.Components) == 0 {
		errs = append(errs, ValidationError{
			Field:   "components",
			Message: "at least one component is required",
			Code:    ErrNoComponents,
		})
	}

	// E103: targets mapping is required
	if len(doc.Targets) == 0 {
		errs = append(errs, ValidationError{
			Field:   "targets",
			Message: "at least one target is required",
			Code:    ErrMissingTargets,
		})
	}

	componentNames := make(map[string]bool, len(doc.Components))
	capabilityIDs := make(map[string]bool)

	for i, comp := range doc.Components {
		// E109: duplicate component name
		if componentNames[comp.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("components[%d].name", i),
				Message: fmt.Sprintf("duplicate component name: %q", comp.Name),
				Code:    ErrDuplicateComponent,
			})
		}
		componentNames[comp.Name] = true

		for j, cap := range comp.Capabilities {
			// E105: capability ids unique across the whole document
			if capabilityIDs[cap.ID] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("components[%d].capabilities[%d].id", i, j),
					Message: fmt.Sprintf("duplicate capability id: %q", cap.ID),
					Code:    ErrDuplicateCapability,
				})
			}
			capabilityIDs[cap.ID] = true

			// E104: status must be recognized
			if !cap.Status.Valid() {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("components[%d].capabilities[%d].status", i, j),
					Message: fmt.Sprintf("unrecognized status %q for capability %q, must be one of required, advisory, deprecated, removed", cap.Status, cap.ID),
					Code:    ErrInvalidStatus,
				})
			}

			errs = append(errs, validateTests(cap, fmt.Sprintf("components[%d].capabilities[%d]", i, j))...)
		}
	}

	// E106: every component listed under a target must be defined
	for _, target := range sortedTargets(doc) {
		for k, name := range doc.Targets[target] {
			if !componentNames[name] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("targets.%s[%d]", target, k),
					Message: fmt.Sprintf("target %q references undefined component %q", target, name),
					Code:    ErrUndefinedComponent,
				})
			}
		}
	}

	return errs
}

// validateTests checks one capability's evidence identifiers.
// The primary identifier and all aliases must be pairwise disjoint within the
// capability; overlap across capabilities is allowed (shared evidence).
func validateTests(cap guideline.Capability, fieldPrefix string) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool)
	for k, test := range cap.Tests {
		// E108: primary identifier required
		if strings.TrimSpace(test.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.tests[%d].name", fieldPrefix, k),
				Message: fmt.Sprintf("test in capability %q has empty name", cap.ID),
				Code:    ErrEmptyTestName,
			})
			continue
		}

		// E107: no duplicate evidence identifiers inside one capability
		for _, id := range test.Identifiers() {
			if seen[id] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.tests[%d]", fieldPrefix, k),
					Message: fmt.Sprintf("duplicate evidence identifier %q in capability %q", id, cap.ID),
					Code:    ErrDuplicateEvidence,
				})
			}
			seen[id] = true
		}
	}

	return errs
}

func sortedTargets(doc *guideline.Document) []string {
	return doc.TargetNames()
}
