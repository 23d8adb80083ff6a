package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pvaneck/refstack/internal/store"
)

// RunsOptions holds flags shared by the runs subcommands.
type RunsOptions struct {
	DBPath  string
	Page    int
	PerPage int
	CPID    string
}

// NewRunsCommand creates the runs command group.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage stored test runs",
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "refstack.db", "sqlite database path")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List stored runs, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsList(rootOpts, opts, cmd)
		},
	}
	list.Flags().IntVar(&opts.Page, "page", 1, "page number (1-based)")
	list.Flags().IntVar(&opts.PerPage, "per-page", 20, "records per page")
	list.Flags().StringVar(&opts.CPID, "cpid", "", "filter by cloud product id")

	show := &cobra.Command{
		Use:           "show <run-id>",
		Short:         "Show one stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsShow(rootOpts, opts, args[0], cmd)
		},
	}

	storeCmd := &cobra.Command{
		Use:           "store <results-file>",
		Short:         "Ingest a results file as a stored run",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunsStore(rootOpts, opts, args[0], cmd)
		},
	}
	storeCmd.Flags().StringVar(&opts.CPID, "cpid", "", "cloud product id (overrides the file's cpid)")

	cmd.AddCommand(list, show, storeCmd)
	return cmd
}

// RunListResult is the JSON payload of runs list.
type RunListResult struct {
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
	Runs       []RunListEntry `json:"runs"`
}

// RunListEntry is one run in a listing.
type RunListEntry struct {
	ID        string `json:"id"`
	CPID      string `json:"cpid"`
	CreatedAt string `json:"created_at"`
}

func runRunsList(rootOpts *RootOptions, opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	filters := store.Filters{CPID: opts.CPID}

	total, err := st.CountRuns(cmd.Context(), filters)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "count runs", err)
	}

	totalPages := store.PageCount(opts.PerPage, total)
	if err := store.CheckPage(opts.Page, totalPages); err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	records, err := st.ListRuns(cmd.Context(), opts.Page, opts.PerPage, filters)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "list runs", err)
	}

	result := RunListResult{Page: opts.Page, TotalPages: totalPages, Total: total}
	for _, rec := range records {
		result.Runs = append(result.Runs, RunListEntry{
			ID:        rec.ID,
			CPID:      rec.CPID,
			CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "page %d of %d (%d run(s))\n", result.Page, result.TotalPages, result.Total)
	for _, r := range result.Runs {
		fmt.Fprintf(formatter.Writer, "  %s  %-20s %s\n", r.ID, r.CPID, r.CreatedAt)
	}
	return nil
}

// RunShowResult is the JSON payload of runs show.
type RunShowResult struct {
	ID              string            `json:"id"`
	CPID            string            `json:"cpid"`
	DurationSeconds int64             `json:"duration_seconds"`
	CreatedAt       string            `json:"created_at"`
	Results         []string          `json:"results"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

func runRunsShow(rootOpts *RootOptions, opts *RunsOptions, runID string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	run, err := st.GetRun(cmd.Context(), runID)
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeRunNotFound, fmt.Sprintf("run %q not found", runID), nil)
		return WrapExitError(ExitCommandError, "show run", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "show run", err)
	}

	result := RunShowResult{
		ID:              run.ID,
		CPID:            run.CPID,
		DurationSeconds: run.DurationSeconds,
		CreatedAt:       run.CreatedAt.UTC().Format(time.RFC3339),
		Results:         run.Results,
		Metadata:        run.Metadata,
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "run %s\n  cpid: %s\n  created: %s\n  duration: %ds\n  passed tests: %d\n",
		result.ID, result.CPID, result.CreatedAt, result.DurationSeconds, len(result.Results))
	for _, name := range result.Results {
		fmt.Fprintf(formatter.Writer, "    %s\n", name)
	}
	return nil
}

func runRunsStore(rootOpts *RootOptions, opts *RunsOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	run, err := LoadRun(path)
	if err != nil {
		return reportLoadFailure(formatter, err)
	}
	if opts.CPID != "" {
		run.CPID = opts.CPID
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer st.Close()

	id, err := st.StoreRun(cmd.Context(), run)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "store run", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"id": id, "results": len(run.Results)})
	}
	fmt.Fprintf(formatter.Writer, "stored run %s (%d passed test(s))\n", id, len(run.Results))
	return nil
}
