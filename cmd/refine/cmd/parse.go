package cmd

import (
	"fmt"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/refine-lang/refine/internal/errdisplay"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/parser"
	"github.com/refine-lang/refine/internal/prettyprint"
)

var (
	parseEval    string
	parseDumpAST bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a program and print it back out",
	Args:  cobra.MaximumNArgs(1),
	RunE:  parseScript,
}

func init() {
	parseCmd.Flags().StringVarP(&parseEval, "eval", "e", "", "parse the given source instead of a file")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "print the raw AST instead of re-rendered source")
	rootCmd.AddCommand(parseCmd)
}

func parseScript(c *cobra.Command, args []string) error {
	source, err := readSource(args, parseEval)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	program, perr := parser.ParseProgram(l)
	if perr != nil {
		fmt.Fprintln(c.ErrOrStderr(), errdisplay.FromParserError(perr, source, "").Format(false))
		return fmt.Errorf("parse failed")
	}

	if parseDumpAST {
		_, err := pretty.Fprintf(c.OutOrStdout(), "%# v\n", program)
		return err
	}

	fmt.Fprintln(c.OutOrStdout(), prettyprint.Program(program))
	return nil
}
