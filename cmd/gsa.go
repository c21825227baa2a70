package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/spf13/cobra"
)

var gsaCmd = &cobra.Command{
	Use:   "gsa",
	Short: "Convert a method to gated SSA (stage §4.6)",
	Long: `Hoists predicates (§4.5) and then rewrites every variable into
versioned, gated static single assignment form: each write gets a
fresh version, merges at if/else join points gate on the controlling
predicate, and the method body is converted to single-exit form.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("gsa", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			out := runGSA(m)
			fmt.Fprint(cmd.OutOrStdout(), ast.Print(out))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(gsaCmd)
	addSourceFlags(gsaCmd)
}
