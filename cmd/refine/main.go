// Command refine is the CLI driver for the refinement-type,
// multiple-dispatch language: lex, parse, check, and run subcommands.
package main

import (
	"os"

	"github.com/refine-lang/refine/cmd/refine/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
