package cmd

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"lex": false, "parse": false, "check": false, "run": false}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected %q to be registered as a subcommand of refine", name)
		}
	}
}
