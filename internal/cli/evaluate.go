package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaneck/refstack/internal/evaluate"
	"github.com/pvaneck/refstack/internal/index"
	"github.com/pvaneck/refstack/internal/parser"
	"github.com/pvaneck/refstack/internal/store"
)

// EvaluateOptions holds flags for the evaluate command.
type EvaluateOptions struct {
	Targets []string // empty = every target the guideline declares
	Results string   // results file
	DBPath  string   // sqlite database (for --run and --save)
	RunID   string   // evaluate a stored run instead of a file
	Save    bool     // persist the report alongside the run
}

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <guideline-file>",
		Short: "Evaluate submitted test results against a guideline",
		Long: `Evaluate a set of passed test identifiers against a guideline.

Evidence comes either from a results file (--results; JSON, YAML, or one
test name per line) or from a stored run (--run with --db). Exit code 1
means the submission is not compliant for at least one evaluated target.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Targets, "target", "t", nil, "target to evaluate (repeatable; default: all declared targets)")
	cmd.Flags().StringVarP(&opts.Results, "results", "r", "", "results file with passed test identifiers")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "sqlite database path")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "evaluate the stored run with this id")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "store the report for the run (requires --db and --run)")

	return cmd
}

func runEvaluate(rootOpts *RootOptions, opts *EvaluateOptions, guidelinePath string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	if (opts.Results == "") == (opts.RunID == "") {
		msg := "exactly one of --results or --run is required"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if opts.RunID != "" && opts.DBPath == "" {
		msg := "--run requires --db"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	doc, err := resolveGuideline(rootOpts, guidelinePath)
	if err != nil {
		return reportLoadFailure(formatter, err)
	}
	formatter.VerboseLog("loaded guideline %s (%d components)", doc.Version, len(doc.Components))

	names, exitErr := resolveEvidence(formatter, opts, cmd)
	if exitErr != nil {
		return exitErr
	}
	formatter.VerboseLog("submission carries %d passed test(s)", len(names))

	idx := index.New(doc)
	targets := opts.Targets
	if len(targets) == 0 {
		targets = nil // EvaluateAll falls back to declared targets
	}

	report, err := evaluate.EvaluateAll(idx, targets, evaluate.NewSubmission(names))
	if err != nil {
		var ute *index.UnknownTargetError
		if errors.As(err, &ute) {
			_ = formatter.Error(ErrCodeUnknownTarget, ute.Error(), nil)
			return WrapExitError(ExitCommandError, "evaluate", err)
		}
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "evaluate", err)
	}

	if opts.Save {
		if exitErr := saveReport(formatter, opts, cmd, report); exitErr != nil {
			return exitErr
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(report); err != nil {
			return err
		}
	} else {
		RenderReport(formatter.Writer, report)
	}

	if !report.Overall {
		return NewExitError(ExitFailure, "submission is not compliant")
	}
	return nil
}

// resolveEvidence loads passed test names from the results file or the store.
func resolveEvidence(formatter *OutputFormatter, opts *EvaluateOptions, cmd *cobra.Command) ([]string, error) {
	if opts.Results != "" {
		names, err := LoadResults(opts.Results)
		if err != nil {
			return nil, reportLoadFailure(formatter, err)
		}
		return names, nil
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	names, err := st.RunResults(cmd.Context(), opts.RunID)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "load run results", err)
	}
	if len(names) == 0 {
		if _, err := st.GetRun(cmd.Context(), opts.RunID); errors.Is(err, store.ErrRunNotFound) {
			_ = formatter.Error(ErrCodeRunNotFound, fmt.Sprintf("run %q not found", opts.RunID), nil)
			return nil, WrapExitError(ExitCommandError, "load run", err)
		}
	}
	return names, nil
}

func saveReport(formatter *OutputFormatter, opts *EvaluateOptions, cmd *cobra.Command, report *evaluate.Report) error {
	if opts.DBPath == "" || opts.RunID == "" {
		msg := "--save requires --db and --run"
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	if err := st.StoreReport(cmd.Context(), opts.RunID, report); err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "store report", err)
	}
	formatter.VerboseLog("stored report for run %s", opts.RunID)
	return nil
}

// reportLoadFailure classifies guideline/results loading errors into CLI
// output plus an exit error.
func reportLoadFailure(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, "load", err)
	}

	var malformed *parser.MalformedGuidelineError
	if errors.As(err, &malformed) {
		_ = formatter.Error(ErrCodeMalformed, malformed.Error(), malformed.Errors)
		return WrapExitError(ExitCommandError, "load", err)
	}

	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "load", err)
}
