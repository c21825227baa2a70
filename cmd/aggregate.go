package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mkelesidou/kausal-go/internal/aggregate"
	"github.com/mkelesidou/kausal-go/internal/config"
	"github.com/mkelesidou/kausal-go/internal/parentmap"
	"github.com/mkelesidou/kausal-go/internal/trace"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// manifestRun is one test execution's entry in an aggregate manifest:
// the arguments it was called with, where its trace log landed, and
// whether it passed.
type manifestRun struct {
	TestArgs  string `yaml:"test_args"`
	TraceFile string `yaml:"trace_file"`
	Outcome   string `yaml:"outcome"`
}

type manifest struct {
	Runs []manifestRun `yaml:"runs"`
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Fold per-test trace logs into the long-format training table (stage §4.9)",
	Long: `Reads a YAML manifest naming one or more test runs (test_args,
trace_file, outcome), loads each run's "name=value" trace log, and
writes the aggregated long-format CSV the suspiciousness engine trains
on: one row per (test, treatment variable) pair.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return reportStage("aggregate", func() error {
			manifestPath, _ := cmd.Flags().GetString("manifest")
			if manifestPath == "" {
				return fmt.Errorf("--manifest is required")
			}
			treatmentVars, _ := cmd.Flags().GetStringArray("treatment-var")
			configPath, _ := cmd.Flags().GetString("config")
			parentMapPath, _ := cmd.Flags().GetString("parent-map")

			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			var parents aggregate.ParentLookup
			if parentMapPath != "" {
				pm, err := readParentMap(parentMapPath)
				if err != nil {
					return err
				}
				parents = pm.Lookup
			}

			data, err := os.ReadFile(manifestPath)
			if err != nil {
				return fmt.Errorf("reading manifest: %w", err)
			}
			var man manifest
			if err := yaml.Unmarshal(data, &man); err != nil {
				return fmt.Errorf("parsing manifest: %w", err)
			}

			runs := make([]aggregate.TestRun, 0, len(man.Runs))
			for _, r := range man.Runs {
				records, err := readTraceLog(r.TraceFile)
				if err != nil {
					return fmt.Errorf("reading trace log %s: %w", r.TraceFile, err)
				}
				runs = append(runs, aggregate.TestRun{
					TestArgs: r.TestArgs,
					Records:  records,
					Outcome:  r.Outcome,
				})
			}

			var tv []string
			if len(treatmentVars) > 0 {
				tv = treatmentVars
			}
			return aggregate.WriteCSVFiltered(cmd.OutOrStdout(), runs, tv, cfg.IsNoise, parents)
		})
	},
}

// readParentMap loads a parentmap.Map from the JSON array the
// "parentmap" command emits, so aggregation can restrict each
// treatment variable's covariates to its recorded parents.
func readParentMap(path string) (*parentmap.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parent map: %w", err)
	}
	pm := parentmap.New()
	if err := json.Unmarshal(data, pm); err != nil {
		return nil, fmt.Errorf("parsing parent map: %w", err)
	}
	return pm, nil
}

// readTraceLog parses a trace.Sink.Flush-format log file ("name=value"
// per line) back into trace records.
func readTraceLog(path string) ([]trace.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []trace.Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		records = append(records, trace.Record{Name: parts[0], Value: parts[1]})
	}
	return records, sc.Err()
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggregateCmd.Flags().String("manifest", "", "YAML manifest listing test runs (required)")
	aggregateCmd.Flags().StringArray("treatment-var", nil, "Restrict aggregation to these treatment variables (default: every traced name)")
	aggregateCmd.Flags().String("config", "", "Path to a pipeline config YAML file")
	aggregateCmd.Flags().String("parent-map", "", "Path to a parentmap JSON file (output of the parentmap command); restricts each treatment's covariates to its recorded parents")
}
