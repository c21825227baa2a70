package cmd

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/mkelesidou/kausal-go/internal/dom"
	"github.com/spf13/cobra"
)

var domCmd = &cobra.Command{
	Use:   "dom",
	Short: "Compute dominators and postdominators (stage §4.2)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("dom", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			cfg, err := cfgbuild.Build(m)
			if err != nil {
				return err
			}
			domInfo, err := dom.Dominators(cfg)
			if err != nil {
				return err
			}
			pdomInfo, err := dom.Postdominators(cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "method: %s\n", cfg.MethodName)
			fmt.Fprintln(w, "idom:")
			for _, n := range cfg.Nodes() {
				fmt.Fprintf(w, "  %s <- %s\n", n.ID, domInfo.IDom[n.ID])
			}
			fmt.Fprintln(w, "ipdom:")
			for _, n := range cfg.Nodes() {
				fmt.Fprintf(w, "  %s <- %s\n", n.ID, pdomInfo.IDom[n.ID])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(domCmd)
	addSourceFlags(domCmd)
}
