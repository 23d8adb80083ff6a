package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaneck/refstack/internal/guideline"
	"github.com/pvaneck/refstack/internal/index"
)

// TargetSummary describes one target of a guideline.
type TargetSummary struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
	Required   int      `json:"required"`
	Advisory   int      `json:"advisory"`
	Other      int      `json:"other"` // deprecated + removed
	TestCount  int      `json:"test_count"`
}

// TargetsResult is the payload of the targets command.
type TargetsResult struct {
	Version string          `json:"version"`
	Targets []TargetSummary `json:"targets"`
}

// NewTargetsCommand creates the targets command.
func NewTargetsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets <guideline-file>",
		Short: "List the targets a guideline defines",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTargets(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTargets(rootOpts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	doc, err := resolveGuideline(rootOpts, path)
	if err != nil {
		return reportLoadFailure(formatter, err)
	}

	idx := index.New(doc)
	result := TargetsResult{Version: doc.Version}

	for _, name := range doc.TargetNames() {
		caps, err := idx.CapabilitiesForTarget(name)
		if err != nil {
			// Targets come from the document itself; a miss here is a bug.
			_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
			return WrapExitError(ExitCommandError, "targets", err)
		}

		summary := TargetSummary{Name: name, Components: doc.Targets[name]}
		for _, cap := range caps {
			switch cap.Status {
			case guideline.StatusRequired:
				summary.Required++
			case guideline.StatusAdvisory:
				summary.Advisory++
			default:
				summary.Other++
			}
			summary.TestCount += len(cap.Tests)
		}
		result.Targets = append(result.Targets, summary)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "guideline %s\n", result.Version)
	for _, t := range result.Targets {
		fmt.Fprintf(formatter.Writer, "  %-12s %d required, %d advisory, %d other (%d tests) via %v\n",
			t.Name, t.Required, t.Advisory, t.Other, t.TestCount, t.Components)
	}
	return nil
}
