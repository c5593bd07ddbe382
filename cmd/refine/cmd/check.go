package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refine-lang/refine/internal/errdisplay"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/parser"
	"github.com/refine-lang/refine/internal/semantic"
)

var checkEval string

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Parse and type-check a program, reporting every Type error found",
	Args:  cobra.MaximumNArgs(1),
	RunE:  checkScript,
}

func init() {
	checkCmd.Flags().StringVarP(&checkEval, "eval", "e", "", "check the given source instead of a file")
	rootCmd.AddCommand(checkCmd)
}

func checkScript(c *cobra.Command, args []string) error {
	source, err := readSource(args, checkEval)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	program, perr := parser.ParseProgram(l)
	if perr != nil {
		fmt.Fprintln(c.ErrOrStderr(), errdisplay.FromParserError(perr, source, "").Format(false))
		return fmt.Errorf("parse failed")
	}

	_, errs := semantic.Analyze(program)
	if len(errs) > 0 {
		for _, e := range errdisplay.FromTypeErrors(errs, source, "") {
			fmt.Fprintln(c.ErrOrStderr(), e.Format(false))
		}
		return fmt.Errorf("%d type error(s)", len(errs))
	}

	fmt.Fprintln(c.OutOrStdout(), "ok")
	return nil
}
