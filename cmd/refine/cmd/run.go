package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"
	"github.com/spf13/cobra"

	"github.com/refine-lang/refine/internal/value"
	"github.com/refine-lang/refine/pkg/refine"
)

var (
	runEval          string
	runExpr          string
	runConstruct     []string
	runInstances     string
	runInstancesJSON string
	runDumpInstances bool
	runSort          bool
	runConfigFile    string
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Load a program, then optionally construct values or evaluate an expression against it",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScript,
}

func init() {
	runCmd.Flags().StringVarP(&runEval, "eval", "e", "", "run the given source instead of a file")
	runCmd.Flags().StringVarP(&runExpr, "expr", "x", "", "evaluate a single expression after loading the program")
	runCmd.Flags().StringArrayVar(&runConstruct, "construct", nil, "construct a value as TypeName=raw (repeatable)")
	runCmd.Flags().StringVar(&runInstances, "instances", "", "print every live instance of the named type")
	runCmd.Flags().StringVar(&runInstancesJSON, "instances-json", "", "print every live instance of the named type as JSON")
	runCmd.Flags().BoolVar(&runDumpInstances, "dump-instances", false, "print every live instance of every declared type")
	runCmd.Flags().BoolVar(&runSort, "sort", false, "natural-sort --dump-instances output by rendered value")
	runCmd.Flags().StringVar(&runConfigFile, "config", "", "optional refine.yaml project file")
	rootCmd.AddCommand(runCmd)
}

func runScript(c *cobra.Command, args []string) error {
	source, err := readSource(args, runEval)
	if err != nil {
		return err
	}

	var opts []refine.Option
	if runConfigFile != "" {
		opts = append(opts, refine.WithConfigFile(runConfigFile))
	}
	eng := refine.New(opts...)
	eng.SetOutput(c.OutOrStdout())

	if errs := eng.Load(source); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(c.ErrOrStderr(), e.Format(false))
		}
		return fmt.Errorf("%d error(s) loading program", len(errs))
	}

	for _, spec := range runConstruct {
		typeName, raw, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("--construct wants TypeName=raw, got %q", spec)
		}
		inst, cerr := eng.Construct(typeName, parseRaw(raw))
		if cerr != nil {
			fmt.Fprintln(c.ErrOrStderr(), cerr.Format(false))
			continue
		}
		fmt.Fprintln(c.OutOrStdout(), inst.String())
	}

	if runInstances != "" {
		for _, inst := range eng.Instances(runInstances) {
			fmt.Fprintln(c.OutOrStdout(), inst.String())
		}
	}

	if runInstancesJSON != "" {
		blob, jerr := eng.InstancesAsJSON(runInstancesJSON)
		if jerr != nil {
			return jerr
		}
		fmt.Fprintln(c.OutOrStdout(), blob)
	}

	if runDumpInstances {
		dumpAllInstances(c, eng)
	}

	if runExpr != "" {
		res := eng.Evaluate(runExpr)
		if !res.Success {
			for _, e := range res.Errors {
				fmt.Fprintln(c.ErrOrStderr(), e.Format(false))
			}
			return fmt.Errorf("evaluation failed")
		}
		fmt.Fprintln(c.OutOrStdout(), res.Value.String())
	}

	return nil
}

// parseRaw interprets a --construct raw argument as an Int, Bool, or
// (the fallback) String payload.
func parseRaw(raw string) value.Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return value.Int{Val: n}
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return value.Bool{Val: b}
	}
	return value.String{Val: raw}
}

// dumpAllInstances prints every instance of every declared value type,
// optionally natural-sorted by its rendered form rather than plain
// insertion order — useful once instance payloads include numeric
// suffixes ("Order-2" vs "Order-10") that lexical sort would misorder.
func dumpAllInstances(c *cobra.Command, eng *refine.Engine) {
	names := eng.Registry().ValueTypeNames()
	sort.Strings(names)
	for _, typeName := range names {
		rendered := make([]string, 0)
		for _, inst := range eng.Instances(typeName) {
			rendered = append(rendered, inst.String())
		}
		if runSort {
			sort.Slice(rendered, func(i, j int) bool {
				return natural.Less(rendered[i], rendered[j])
			})
		}
		for _, line := range rendered {
			fmt.Fprintln(c.OutOrStdout(), line)
		}
	}
}
