package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaneck/refstack/internal/parser"
)

// ValidationResult holds guideline validation results.
type ValidationResult struct {
	Valid   bool                     `json:"valid"`
	Version string                   `json:"version,omitempty"`
	Errors  []parser.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <guideline-file>",
		Short: "Validate a guideline file without evaluating anything",
		Long: `Validate the structure of a guideline document.

Checks schema conformance, component references, capability statuses,
and evidence identifier uniqueness, reporting every defect found with
a field path and error code.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateGuideline(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidateGuideline(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := resolveGuideline(opts, path)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitCommandError, loadErr.Error())
		}

		var malformed *parser.MalformedGuidelineError
		if errors.As(err, &malformed) {
			return outputValidationErrors(formatter, malformed.Errors)
		}

		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Version: doc.Version})
	}

	fmt.Fprintf(formatter.Writer, "✓ guideline %s valid (%d components, %d targets)\n",
		doc.Version, len(doc.Components), len(doc.Targets))
	return nil
}

// outputValidationErrors outputs every structural defect and fails the command.
func outputValidationErrors(formatter *OutputFormatter, errs []parser.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Error(ErrCodeMalformed, fmt.Sprintf("validation failed with %d error(s)", len(errs)), result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
