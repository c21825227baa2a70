package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mkelesidou/kausal-go/internal/config"
	"github.com/mkelesidou/kausal-go/internal/suspicious"
	"github.com/mkelesidou/kausal-go/output"
	"github.com/spf13/cobra"
)

// osExit allows tests to mock process exit, the same indirection the
// teacher's scan/ci commands use.
var osExit = os.Exit

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Train per-variable classifiers and rank counterfactual suspiciousness (stage §4.10-§4.11)",
	Long: `Reads the aggregated long-format table (internal/aggregate's
output) from --input or stdin, groups it by treatment variable, trains
a classifier per variable, and ranks variables by counterfactual
suspiciousness. Writes CSV by default, or a SARIF 2.1.0 run with
--format sarif.

Exits 1 if --fail-on-suspicious is set and any variable's score meets
or exceeds it, so the command composes with CI fail-the-build logic
the way the rest of the pipeline's exit codes do.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var exitCode output.ExitCode
		err := reportStage("rank", func() error {
			inputPath, _ := cmd.Flags().GetString("input")
			format, _ := cmd.Flags().GetString("format")
			sourceFile, _ := cmd.Flags().GetString("source-file")
			threshold, _ := cmd.Flags().GetFloat64("fail-on-suspicious")
			configPath, _ := cmd.Flags().GetString("config")

			if err := output.ValidateThreshold(threshold); err != nil {
				return err
			}

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			records, err := readAggregateCSV(inputPath)
			if err != nil {
				return err
			}

			datasets := suspicious.GroupByTreatment(records)
			trainCfg := suspicious.TrainConfig{
				LearningRate: cfg.Classifier.LearningRate,
				Epochs:       cfg.Classifier.Epochs,
			}
			scores := suspicious.Rank(datasets, trainCfg)

			switch format {
			case "sarif":
				if err := suspicious.WriteSARIF(cmd.OutOrStdout(), sourceFile, scores); err != nil {
					return err
				}
			default:
				f := output.NewCSVFormatterWithWriter(cmd.OutOrStdout(), output.NewDefaultOptions())
				if err := f.Format(scores); err != nil {
					return err
				}
			}

			exitCode = output.DetermineExitCode(scores, threshold, false)
			return nil
		})
		if err != nil {
			return err
		}
		if exitCode != output.ExitCodeSuccess {
			osExit(int(exitCode))
		}
		return nil
	},
}

func readAggregateCSV(path string) ([][]string, error) {
	var r io.Reader
	if path == "" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing aggregated CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil // drop the aggregate.Header row
}

func init() {
	rootCmd.AddCommand(rankCmd)
	rankCmd.Flags().String("input", "", "Path to aggregated CSV (default: read stdin)")
	rankCmd.Flags().String("format", "csv", "Output format: csv or sarif")
	rankCmd.Flags().String("source-file", "", "Source file path recorded in SARIF result locations")
	rankCmd.Flags().Float64("fail-on-suspicious", -1, "Exit 1 if any treatment variable's suspiciousness meets or exceeds this value")
	rankCmd.Flags().String("config", "", "Path to a pipeline config YAML file")
}
