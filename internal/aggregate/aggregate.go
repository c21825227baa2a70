// Package aggregate turns per-test trace logs into the long-format
// covariate/treatment/outcome table the suspiciousness engine trains
// on (spec §4.9): one row per (test, treatment variable) pair, with
// that treatment's causal ancestors — its parent-map parents, not
// every traced value — folded into a single Covariates column.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mkelesidou/kausal-go/internal/trace"
)

// Header is the fixed column order of the aggregated table.
var Header = []string{"TestArgs", "Covariates", "TreatmentVar", "TreatmentVal", "Outcome"}

// TestRun is one test's raw trace output, ready to aggregate.
type TestRun struct {
	TestArgs string
	Records  []trace.Record
	Outcome  string
}

// isNoise reports whether a traced name should be dropped entirely —
// the temporaries the gsa and instrument stages generate for
// ternaries and compound assignments, and anything explicitly marked
// as debug-only output.
func isNoise(name string) bool {
	if strings.HasPrefix(name, "temp") || strings.HasPrefix(name, "ternary_") || strings.HasPrefix(name, "t") && isAllDigitsAfterT(name) {
		return true
	}
	return strings.HasSuffix(name, "_debug")
}

func isAllDigitsAfterT(name string) bool {
	if len(name) < 2 {
		return false
	}
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lastValues folds a record list down to one value per name, last
// write wins, the same convention the CLI's single trace.Sink
// replays in order. noise overrides the built-in isNoise check when
// non-nil, letting callers plug in internal/config's configured
// prefix/suffix set.
func lastValues(records []trace.Record, noise func(string) bool) map[string]string {
	if noise == nil {
		noise = isNoise
	}
	out := make(map[string]string)
	for _, r := range records {
		if noise(r.Name) {
			continue
		}
		out[r.Name] = r.Value
	}
	return out
}

// ParentLookup resolves a traced name to its parent-map parents, the
// same signature internal/parentmap.Map.Lookup exposes. Aggregation
// uses it to restrict a treatment's covariates to its causal
// ancestors (spec §4.9) rather than every value the trace happened to
// record.
type ParentLookup func(name string) ([]string, bool)

// Rows produces the aggregated rows for one test run: one row per
// treatment variable present in values (treatmentVars filters which
// names count as treatments; pass nil to treat every traced name as a
// candidate treatment). Uses the built-in noise filter and no parent
// map, so every row's Covariates column is empty; see RowsFiltered to
// supply both.
func Rows(run TestRun, treatmentVars []string) [][]string {
	return RowsFiltered(run, treatmentVars, nil, nil)
}

// RowsFiltered is Rows with an injectable noise predicate and parent
// lookup, so the CLI can drive filtering from internal/config and
// covariate selection from a parentmap.Map rather than the built-in
// defaults.
func RowsFiltered(run TestRun, treatmentVars []string, noise func(string) bool, parents ParentLookup) [][]string {
	values := lastValues(run.Records, noise)

	var candidates []string
	if treatmentVars == nil {
		for name := range values {
			candidates = append(candidates, name)
		}
		sort.Strings(candidates)
	} else {
		for _, v := range treatmentVars {
			if _, ok := values[v]; ok {
				candidates = append(candidates, v)
			}
		}
	}

	var rows [][]string
	for _, treatment := range candidates {
		covariates := covariateString(values, treatment, parents)
		rows = append(rows, []string{
			run.TestArgs,
			covariates,
			treatment,
			values[treatment],
			run.Outcome,
		})
	}
	return rows
}

// covariateString renders the treatment variable's parent-map parents
// (spec §4.9: "for each parent p, find p's last value") as "name=value"
// pairs, sorted by name for determinism, joined with ";". A parent
// with no recorded value, or a nil/empty parent lookup, is skipped
// rather than guessed at.
func covariateString(values map[string]string, treatment string, parents ParentLookup) string {
	if parents == nil {
		return ""
	}
	names, ok := parents(treatment)
	if !ok {
		return ""
	}
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	parts := make([]string, 0, len(sorted))
	for _, name := range sorted {
		val, ok := values[name]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", name, val))
	}
	return strings.Join(parts, ";")
}

// WriteCSV writes the header followed by every run's aggregated rows,
// using encoding/csv's standard quoting rules. No parent map is
// supplied, so Covariates is empty; see WriteCSVFiltered.
func WriteCSV(w io.Writer, runs []TestRun, treatmentVars []string) error {
	return WriteCSVFiltered(w, runs, treatmentVars, nil, nil)
}

// WriteCSVFiltered is WriteCSV with an injectable noise predicate and
// parent lookup.
func WriteCSVFiltered(w io.Writer, runs []TestRun, treatmentVars []string, noise func(string) bool, parents ParentLookup) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, run := range runs {
		for _, row := range RowsFiltered(run, treatmentVars, noise, parents) {
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
