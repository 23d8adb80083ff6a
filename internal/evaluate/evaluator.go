package evaluate

import (
	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/index"
)

// Evaluate decides compliance for one target against one guideline document.
//
// The only possible error is *index.UnknownTargetError. Submitted identifiers
// no capability references are ignored; evidence is never consumed, so one
// submitted test may satisfy any number of capabilities.
func Evaluate(idx *index.Index, target string, submitted Submission) (*TargetResult, error) {
	caps, err := idx.CapabilitiesForTarget(target)
	if err != nil {
		return nil, err
	}

	result := &TargetResult{
		Target:       target,
		Compliant:    true,
		Capabilities: make([]CapabilityResult, 0, len(caps)),
	}

	for _, cap := range caps {
		cr := evaluateCapability(cap, submitted)
		if cap.Status.Gating() && cr.Outcome == OutcomeFailed {
			result.Compliant = false
		}
		result.Capabilities = append(result.Capabilities, cr)
	}

	return result, nil
}

// evaluateCapability resolves every test spec of one capability against the
// submission. Gating is AND-semantics: the capability passes only when all
// test specs are satisfied. The ratio is retained for diagnostics only.
func evaluateCapability(cap guideline.Capability, submitted Submission) CapabilityResult {
	cr := CapabilityResult{
		ID:     cap.ID,
		Status: cap.Status,
		Total:  len(cap.Tests),
		Tests:  make([]TestResult, 0, len(cap.Tests)),
	}

	for _, test := range cap.Tests {
		tr := resolveTest(test, submitted)
		if tr.Satisfied {
			cr.Satisfied++
		}
		cr.Tests = append(cr.Tests, tr)
	}

	// Zero test specs: vacuously passed, but called out in the report.
	if cr.Total == 0 {
		cr.NoEvidence = true
	}

	switch {
	case !cap.Status.Gating():
		cr.Outcome = OutcomeNotGating
	case cr.Passed():
		cr.Outcome = OutcomePassed
	default:
		cr.Outcome = OutcomeFailed
	}

	return cr
}

// resolveTest checks one test spec against the submission.
//
// A test spec is satisfied when its primary identifier was submitted, any of
// its aliases was submitted, or it is flagged. Flagged tests are excused by
// policy, not by evidence, so SatisfiedBy stays empty for them unless a
// submitted identifier also matched.
func resolveTest(test guideline.TestSpec, submitted Submission) TestResult {
	tr := TestResult{
		Name:    test.Name,
		Flagged: test.Flagged,
	}

	for _, id := range test.Identifiers() {
		if submitted.Has(id) {
			tr.Satisfied = true
			tr.SatisfiedBy = id
			return tr
		}
	}

	if test.Flagged {
		tr.Satisfied = true
	}

	return tr
}
