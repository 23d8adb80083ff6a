package evaluate

import (
	"fmt"

	"github.com/pvaneck/refstack/internal/guideline"
)

// Outcome classifies a capability's evaluation result.
type Outcome string

const (
	// OutcomePassed means every test spec of the capability is satisfied.
	OutcomePassed Outcome = "passed"

	// OutcomeFailed means at least one test spec is unsatisfied.
	OutcomeFailed Outcome = "failed"

	// OutcomeNotGating means the capability's status excludes it from the
	// compliance decision (advisory, deprecated, removed). The underlying
	// pass/fail is still computed and reported via Satisfied/Total.
	OutcomeNotGating Outcome = "not-gating"
)

// Submission is the set of test identifiers a vendor claims to have passed.
// It may be a superset of the identifiers a guideline references.
type Submission map[string]struct{}

// NewSubmission builds a Submission from a list of test identifiers.
func NewSubmission(ids []string) Submission {
	s := make(Submission, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether the identifier was submitted.
func (s Submission) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// TestResult records how one test spec was resolved.
type TestResult struct {
	// Name is the primary test identifier.
	Name string `json:"name"`

	Satisfied bool `json:"satisfied"`

	// SatisfiedBy is the submitted identifier that provided the evidence
	// (the primary name or an alias). Empty when unsatisfied or when the
	// test was excused by policy rather than evidence.
	SatisfiedBy string `json:"satisfied_by,omitempty"`

	// Flagged is carried through so reports can show which tests were
	// excused regardless of submission content.
	Flagged bool `json:"flagged,omitempty"`
}

// CapabilityResult records the outcome of one capability for one target.
type CapabilityResult struct {
	ID      string           `json:"id"`
	Status  guideline.Status `json:"status"`
	Outcome Outcome          `json:"outcome"`

	// Satisfied and Total give the satisfaction ratio at reporting
	// granularity. Gating is all-or-nothing: the capability passes only
	// when Satisfied == Total.
	Satisfied int `json:"satisfied"`
	Total     int `json:"total"`

	// NoEvidence flags a capability that defines zero test specs. Such a
	// capability is vacuously passed but called out in the report.
	NoEvidence bool `json:"no_evidence,omitempty"`

	Tests []TestResult `json:"tests"`
}

// Ratio returns the satisfaction ratio in [0, 1].
// A capability with no tests has ratio 1 (vacuously satisfied).
func (c CapabilityResult) Ratio() float64 {
	if c.Total == 0 {
		return 1
	}
	return float64(c.Satisfied) / float64(c.Total)
}

// Passed reports whether every test spec was satisfied, independent of
// whether the capability gates compliance.
func (c CapabilityResult) Passed() bool {
	return c.Satisfied == c.Total
}

// TargetResult is the compliance decision for one target.
type TargetResult struct {
	Target string `json:"target"`

	// Compliant is true iff every required-status capability passed.
	Compliant bool `json:"compliant"`

	// Capabilities in component declaration order.
	Capabilities []CapabilityResult `json:"capabilities"`
}

// Report merges per-target results for one guideline version.
type Report struct {
	Version string `json:"version"`

	// EngineVersion records which engine produced the report.
	EngineVersion string `json:"engine_version"`

	// Overall is true iff every evaluated target is compliant.
	Overall bool `json:"overall"`

	Targets []TargetResult `json:"targets"`
}

// canonicalMap converts the report to the restricted value set accepted by
// guideline.MarshalCanonical. Ratios are carried as satisfied/total integer
// pairs so the canonical form stays float-free.
func (r *Report) canonicalMap() map[string]any {
	targets := make([]any, len(r.Targets))
	for i, tr := range r.Targets {
		caps := make([]any, len(tr.Capabilities))
		for j, cr := range tr.Capabilities {
			tests := make([]any, len(cr.Tests))
			for k, t := range cr.Tests {
				tm := map[string]any{
					"name":      t.Name,
					"satisfied": t.Satisfied,
				}
				if t.SatisfiedBy != "" {
					tm["satisfied_by"] = t.SatisfiedBy
				}
				if t.Flagged {
					tm["flagged"] = true
				}
				tests[k] = tm
			}
			cm := map[string]any{
				"id":        cr.ID,
				"status":    string(cr.Status),
				"outcome":   string(cr.Outcome),
				"satisfied": cr.Satisfied,
				"total":     cr.Total,
				"tests":     tests,
			}
			if cr.NoEvidence {
				cm["no_evidence"] = true
			}
			caps[j] = cm
		}
		targets[i] = map[string]any{
			"target":       tr.Target,
			"compliant":    tr.Compliant,
			"capabilities": caps,
		}
	}

	return map[string]any{
		"version":        r.Version,
		"engine_version": r.EngineVersion,
		"overall":        r.Overall,
		"targets":        targets,
	}
}

// CanonicalJSON returns the deterministic serialization of the report.
// Identical evaluations always produce identical bytes.
func (r *Report) CanonicalJSON() ([]byte, error) {
	data, err := guideline.MarshalCanonical(r.canonicalMap())
	if err != nil {
		return nil, fmt.Errorf("canonical report: %w", err)
	}
	return data, nil
}

// Hash returns the content hash of the report's canonical serialization.
func (r *Report) Hash() (string, error) {
	data, err := r.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return guideline.HashWithDomain(guideline.DomainReport, data), nil
}
