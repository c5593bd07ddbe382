// Package cmd implements the refine CLI's cobra command tree: a single
// root command with a persistent --verbose flag and a custom version
// template, delegating each real piece of work to one subcommand.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version, GitCommit, and BuildDate are overridden at build time via
// -ldflags.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "refine",
	Short:   "refine is the driver CLI for the refinement-type, multiple-dispatch language",
	Long:    "refine lexes, parses, type-checks, and evaluates programs written in the\nrefinement-type, multiple-dispatch language described by the project spec.",
	Version: Version,
}

// Execute runs the root command, returning any error it produced.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print additional diagnostic output")
	rootCmd.SetVersionTemplate(fmt.Sprintf("refine %s (commit %s, built %s)\n", Version, GitCommit, BuildDate))
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "refine: "+msg+"\n", args...)
	os.Exit(1)
}
