package cmd

import (
	"fmt"
	"strings"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/mkelesidou/kausal-go/internal/reach"
	"github.com/spf13/cobra"
)

var reachCmd = &cobra.Command{
	Use:   "reach",
	Short: "Compute reaching definitions (stage §4.4)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("reach", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			cfg, err := cfgbuild.Build(m)
			if err != nil {
				return err
			}
			result, err := reach.Compute(cfg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "method: %s\n", cfg.MethodName)
			for _, n := range cfg.Nodes() {
				fmt.Fprintf(w, "  %s: %s\n", n.ID, strings.Join(result.ReachingVars(n.ID), ", "))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(reachCmd)
	addSourceFlags(reachCmd)
}
