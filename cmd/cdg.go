package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/cdg"
	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/spf13/cobra"
)

var cdgCmd = &cobra.Command{
	Use:   "cdg",
	Short: "Build the control-dependence graph (stage §4.3)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("cdg", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			cfgGraph, err := cfgbuild.Build(m)
			if err != nil {
				return err
			}
			g, err := cdg.Build(cfgGraph)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "method: %s\n", g.MethodName)
			for _, n := range g.Nodes() {
				for _, e := range g.DependsOn(n) {
					fmt.Fprintf(w, "  %s depends on %s [%s]\n", e.To, e.From, e.Label)
				}
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cdgCmd)
	addSourceFlags(cdgCmd)
}
