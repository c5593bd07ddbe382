package cmd

import (
	"fmt"
	"os"
)

// readSource returns the source text for a subcommand invocation: the
// literal inline argument, if non-empty, otherwise the contents of the
// file named by args[0]. Every subcommand accepts either
// `--eval/-e "<source>"` or a single file argument.
func readSource(args []string, inline string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("no source given: pass a file or -e/--eval")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}
