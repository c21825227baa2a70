package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/parentmap"
	"github.com/spf13/cobra"
)

var parentmapCmd = &cobra.Command{
	Use:   "parentmap",
	Short: "Extract the assignment-target parent map (stage §4.8)",
	Long: `Runs the full transform chain (predicate, GSA, instrument) and
extracts, for every assignment target, the identifiers its right-hand
side reads. Emits JSON.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("parentmap", func() error {
			m, err := parseMethod(cmd)
			if err != nil {
				return err
			}
			instrumented := runInstrument(m)
			pm := parentmap.Extract(instrumented)

			data, err := json.MarshalIndent(pm, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(parentmapCmd)
	addSourceFlags(parentmapCmd)
}
