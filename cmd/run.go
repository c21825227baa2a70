package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full per-method transform pipeline, stdin to stdout",
	Long: `Pipes a single method through predicate hoisting, GSA conversion,
and instrumentation in one pass and prints the resulting source. This
is the same chain "gsa" and "instrument" run individually, wired
together for scripting.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("run", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			out := runInstrument(m)
			fmt.Fprint(cmd.OutOrStdout(), ast.Print(out))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addSourceFlags(runCmd)
}
