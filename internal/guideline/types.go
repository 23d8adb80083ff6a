package guideline

import "sort"

// Status classifies how a capability participates in the certification
// decision for a target.
type Status string

const (
	// StatusRequired capabilities gate pass/fail.
	StatusRequired Status = "required"

	// StatusAdvisory capabilities are reported but never gate.
	StatusAdvisory Status = "advisory"

	// StatusDeprecated capabilities are excluded from gating and flagged
	// informationally.
	StatusDeprecated Status = "deprecated"

	// StatusRemoved capabilities are excluded from gating and flagged
	// informationally.
	StatusRemoved Status = "removed"
)

// ValidStatuses defines the recognized capability statuses.
var ValidStatuses = map[Status]bool{
	StatusRequired:   true,
	StatusAdvisory:   true,
	StatusDeprecated: true,
	StatusRemoved:    true,
}

// Gating reports whether capabilities with this status participate in the
// target-level compliance decision.
func (s Status) Gating() bool {
	return s == StatusRequired
}

// Valid reports whether the status is one of the recognized values.
func (s Status) Valid() bool {
	return ValidStatuses[s]
}

// Document is the parsed, immutable representation of one guideline version.
type Document struct {
	// Version is an opaque identifier, unique per document (e.g. "2026.01").
	Version string `json:"version"`

	// Components are declared in guideline order. Order is semantically
	// irrelevant but preserved for deterministic report rendering.
	Components []Component `json:"components"`

	// Targets maps a certifiable target name (e.g. "compute", "object") to
	// the ordered component names that apply to it.
	Targets map[string][]string `json:"targets"`
}

// Component groups related capabilities under a unique name.
type Component struct {
	Name         string       `json:"name"`
	Capabilities []Capability `json:"capabilities"`
}

// Capability is a named requirement backed by zero or more tests.
type Capability struct {
	// ID is unique within a document (e.g. "compute-servers-create").
	ID string `json:"id"`

	Status Status `json:"status"`

	// Tests are the acceptable evidence for this capability. A capability
	// passes only when every listed test is satisfied.
	Tests []TestSpec `json:"tests"`
}

// TestSpec is one piece of acceptable evidence for a capability.
type TestSpec struct {
	// Name is the primary test identifier.
	Name string `json:"name"`

	// Aliases are alternate identifiers accepted as equivalent evidence,
	// typically tests renamed across guideline releases.
	Aliases []string `json:"aliases,omitempty"`

	// Flagged marks a known-unreliable test. Flagged tests are treated as
	// satisfied regardless of submitted evidence.
	Flagged bool `json:"flagged,omitempty"`
}

// Identifiers returns the primary name followed by all aliases.
func (t TestSpec) Identifiers() []string {
	ids := make([]string, 0, 1+len(t.Aliases))
	ids = append(ids, t.Name)
	ids = append(ids, t.Aliases...)
	return ids
}

// Component returns the named component and whether it exists.
func (d *Document) Component(name string) (Component, bool) {
	for _, c := range d.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}

// TargetNames returns the declared target names in lexicographic order.
func (d *Document) TargetNames() []string {
	names := make([]string, 0, len(d.Targets))
	for name := range d.Targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
