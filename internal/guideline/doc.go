// Package guideline defines the immutable in-memory representation of one
// interoperability guideline version: the components it declares, the
// capabilities those components carry, and the tests that serve as evidence
// for each capability.
//
// A Document is constructed once (by the parser) and never mutated. Everything
// downstream (the capability index, the evaluator, the registry cache) treats
// it as a read-only value that may be shared freely across goroutines.
package guideline
