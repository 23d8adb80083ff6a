package cli

import (
	"fmt"
	"io"

	"github.com/pvaneck/refstack/internal/evaluate"
)

// RenderReport writes the human-readable form of a compliance report.
// The layout is stable and covered by golden tests.
func RenderReport(w io.Writer, report *evaluate.Report) {
	fmt.Fprintf(w, "guideline %s: overall %s\n", report.Version, passFail(report.Overall))

	for _, target := range report.Targets {
		fmt.Fprintf(w, "\ntarget %s: %s\n", target.Target, passFail(target.Compliant))
		for _, cap := range target.Capabilities {
			fmt.Fprintf(w, "  %-40s %-10s %-10s %d/%d\n",
				cap.ID, cap.Status, cap.Outcome, cap.Satisfied, cap.Total)
			if cap.NoEvidence {
				fmt.Fprintf(w, "    ! no evidence defined\n")
			}
			for _, t := range cap.Tests {
				if !t.Satisfied {
					fmt.Fprintf(w, "    ✗ %s\n", t.Name)
				} else if t.Flagged && t.SatisfiedBy == "" {
					fmt.Fprintf(w, "    ~ %s (flagged, excused)\n", t.Name)
				}
			}
		}
	}
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
