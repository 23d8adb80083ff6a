package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pvaneck/refstack/internal/registry"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	GuidelinesDir string // resolve guideline args as versions in this directory

	registry *registry.Registry // lazily built when GuidelinesDir is set
}

// guidelineRegistry returns the version-keyed guideline cache backed by the
// configured guidelines directory.
func (o *RootOptions) guidelineRegistry() *registry.Registry {
	if o.registry == nil {
		o.registry = registry.New(registry.DirectorySource(o.GuidelinesDir))
	}
	return o.registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the refstack CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "refstack",
		Short: "RefStack - interoperability guideline compliance",
		Long:  "Evaluate vendor test results against interoperability capability guidelines.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.GuidelinesDir, "guidelines", "", "directory of <version>.json guideline files; guideline arguments become versions")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewTargetsCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))

	return cmd
}

// newFormatter builds the standard formatter for a command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
