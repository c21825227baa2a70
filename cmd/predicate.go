package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/spf13/cobra"
)

var predicateCmd = &cobra.Command{
	Use:   "predicate",
	Short: "Hoist branch conditions into named predicates (stage §4.5)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("predicate", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			out := runPredicate(m)
			fmt.Fprint(cmd.OutOrStdout(), ast.Print(out))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(predicateCmd)
	addSourceFlags(predicateCmd)
}
