package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/spf13/cobra"
)

var instrumentCmd = &cobra.Command{
	Use:   "instrument",
	Short: "Insert trace calls after every assignment (stage §4.7)",
	Long: `Runs predicate hoisting and GSA conversion, then inserts a
trace(name, value) call after every versioned assignment so a test
execution can be replayed into the aggregation stage.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("instrument", func() error {
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
	rootCmd.AddCommand(instrumentCmd)
	addSourceFlags(instrumentCmd)
}
