// Package index provides a derived, read-only lookup view over a parsed
// guideline document: capability by id, capabilities by target, and a reverse
// mapping from every evidence identifier (primary or alias) to the
// capabilities that accept it.
//
// An Index is built in one pass and never mutated; rebuilding from the same
// document is always safe and yields an equivalent index.
package index

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pvaneck/refstack/internal/guideline"
)

// UnknownTargetError reports a request for a target the document does not
// define. This is a caller-input error, not retryable without correcting
// the input.
type UnknownTargetError struct {
	Target  string
	Version string
	Known   []string
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q in guideline %s (known targets: %v)",
		e.Target, e.Version, e.Known)
}

// IsUnknownTarget reports whether err is (or wraps) an UnknownTargetError.
func IsUnknownTarget(err error) bool {
	var ue *UnknownTargetError
	return errors.As(err, &ue)
}

// Index is a disposable read-derived view over one guideline document.
type Index struct {
	doc *guideline.Document

	// capability id -> capability
	capabilities map[string]guideline.Capability

	// target name -> capabilities in component declaration order
	byTarget map[string][]guideline.Capability

	// evidence identifier (primary or alias) -> owning capability ids
	byTest map[string][]string
}

// New builds an index over doc in a single pass.
// doc must already have passed structural validation; New does not revalidate.
func New(doc *guideline.Document) *Index {
	idx := &Index{
		doc:          doc,
		capabilities: make(map[string]guideline.Capability),
		byTarget:     make(map[string][]guideline.Capability, len(doc.Targets)),
		byTest:       make(map[string][]string),
	}

	for _, comp := range doc.Components {
		for _, cap := range comp.Capabilities {
			idx.capabilities[cap.ID] = cap
			for _, test := range cap.Tests {
				for _, id := range test.Identifiers() {
					idx.byTest[id] = append(idx.byTest[id], cap.ID)
				}
			}
		}
	}

	for target, componentNames := range doc.Targets {
		var caps []guideline.Capability
		for _, name := range componentNames {
			comp, ok := doc.Component(name)
			if !ok {
				// Unreachable after parse-time validation; skip rather than
				// invent capabilities for a missing component.
				continue
			}
			caps = append(caps, comp.Capabilities...)
		}
		idx.byTarget[target] = caps
	}

	return idx
}

// Document returns the indexed document.
func (idx *Index) Document() *guideline.Document {
	return idx.doc
}

// CapabilitiesForTarget returns the capabilities applying to target, ordered
// by component declaration order. Returns *UnknownTargetError if the document
// does not define target.
func (idx *Index) CapabilitiesForTarget(target string) ([]guideline.Capability, error) {
	caps, ok := idx.byTarget[target]
	if !ok {
		return nil, &UnknownTargetError{
			Target:  target,
			Version: idx.doc.Version,
			Known:   idx.doc.TargetNames(),
		}
	}
	return caps, nil
}

// TestsForCapability returns the test specs of the given capability, or nil
// if the capability id is not defined.
func (idx *Index) TestsForCapability(capabilityID string) []guideline.TestSpec {
	cap, ok := idx.capabilities[capabilityID]
	if !ok {
		return nil
	}
	return cap.Tests
}

// CapabilitiesForTest returns the ids of every capability accepting the given
// identifier (primary or alias) as evidence, sorted for determinism. Returns
// nil for identifiers no capability references.
func (idx *Index) CapabilitiesForTest(testID string) []string {
	ids := idx.byTest[testID]
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// EvidenceForTarget returns the union of every evidence identifier (primary
// and alias) referenced by the target's capabilities. Useful for building a
// full-evidence submission in tests and tooling.
func (idx *Index) EvidenceForTarget(target string) (map[string]struct{}, error) {
	caps, err := idx.CapabilitiesForTarget(target)
	if err != nil {
		return nil, err
	}
	evidence := make(map[string]struct{})
	for _, cap := range caps {
		for _, test := range cap.Tests {
			for _, id := range test.Identifiers() {
				evidence[id] = struct{}{}
			}
		}
	}
	return evidence, nil
}
