package evaluate

import (
	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/index"
)

// Aggregate merges per-target results into one report.
//
// Target order is preserved as given by the caller. Overall compliance is
// true iff every merged target is compliant; an empty result set yields a
// vacuous report with Overall true.
func Aggregate(version string, results []*TargetResult) *Report {
	report := &Report{
		Version:       version,
		EngineVersion: guideline.EngineVersion,
		Overall:       true,
		Targets:       make([]TargetResult, 0, len(results)),
	}

	for _, r := range results {
		if !r.Compliant {
			report.Overall = false
		}
		report.Targets = append(report.Targets, *r)
	}

	return report
}

// EvaluateAll evaluates the submission against every named target and
// aggregates the results. When targets is nil, the document's declared
// targets are evaluated in lexicographic order.
func EvaluateAll(idx *index.Index, targets []string, submitted Submission) (*Report, error) {
	if targets == nil {
		targets = idx.Document().TargetNames()
	}

	results := make([]*TargetResult, 0, len(targets))
	for _, target := range targets {
		r, err := Evaluate(idx, target, submitted)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return Aggregate(idx.Document().Version, results), nil
}
