package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/refine-lang/refine/internal/errdisplay"
	"github.com/refine-lang/refine/internal/lexer"
	"github.com/refine-lang/refine/internal/token"
)

var (
	lexEval     string
	lexShowPos  bool
	lexOnlyType bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a program and print its tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  lexScript,
}

func init() {
	lexCmd.Flags().StringVarP(&lexEval, "eval", "e", "", "lex the given source instead of a file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "print each token's line:column")
	lexCmd.Flags().BoolVar(&lexOnlyType, "only-type", false, "print only each token's type, not its lexeme")
	rootCmd.AddCommand(lexCmd)
}

func lexScript(c *cobra.Command, args []string) error {
	source, err := readSource(args, lexEval)
	if err != nil {
		return err
	}

	l := lexer.New(source)
	for {
		tok, lerr := l.NextToken()
		if lerr != nil {
			fmt.Fprintln(c.ErrOrStderr(), errdisplay.FromLexerError(lerr, source, "").Format(false))
			return fmt.Errorf("lex failed")
		}
		printToken(c, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return nil
}

func printToken(c *cobra.Command, tok token.Token) {
	out := c.OutOrStdout()
	if lexOnlyType {
		fmt.Fprintf(out, "%s\n", tok.Type)
		return
	}
	if lexShowPos {
		fmt.Fprintf(out, "[%s] %q @%s\n", tok.Type, tok.Lexeme, tok.Pos)
		return
	}
	fmt.Fprintf(out, "[%s] %q\n", tok.Type, tok.Lexeme)
}
