package main

import (
	"fmt"
	"os"

	"github.com/pvaneck/refstack/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands emit their own formatted output; only surface errors
		// that bypassed the formatter (flag parsing, usage).
		if _, ok := err.(*cli.ExitError); !ok {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
