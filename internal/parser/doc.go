// Package parser converts raw guideline content (already fetched by an
// external source) into an immutable guideline.Document.
//
// Parsing is a pure transformation: no network or storage access. Raw input
// first passes a CUE schema gate for type-level defects, then structural
// validation (undefined component references, duplicate capability ids,
// duplicate evidence identifiers, unrecognized statuses). Validation is not
// fail-fast: all defects are collected and surfaced as one
// MalformedGuidelineError carrying a field path per defect.
package parser
