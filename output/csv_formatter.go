package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/mkelesidou/kausal-go/internal/suspicious"
)

// CSVFormatter formats a counterfactual suspiciousness ranking as CSV.
type CSVFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewCSVFormatter creates a CSV formatter writing to stdout.
func NewCSVFormatter(opts *OutputOptions) *CSVFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &CSVFormatter{
		writer:  os.Stdout,
		options: opts,
	}
}

// NewCSVFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewCSVFormatterWithWriter(w io.Writer, opts *OutputOptions) *CSVFormatter {
	cf := NewCSVFormatter(opts)
	cf.writer = w
	return cf
}

// CSVHeaders returns the ranking table's column headers.
func CSVHeaders() []string {
	return []string{
		"rank",
		"treatment_var",
		"suspiciousness",
		"min_prediction",
		"max_prediction",
		"representative_values",
	}
}

// Format writes the ranking, highest suspiciousness first, as CSV.
// Scores is expected to already be sorted (suspicious.Rank does this).
func (f *CSVFormatter) Format(scores []suspicious.Score) error {
	w := csv.NewWriter(f.writer)
	defer w.Flush()

	if err := w.Write(CSVHeaders()); err != nil {
		return err
	}

	for i, s := range scores {
		if err := w.Write(f.buildRow(i+1, s)); err != nil {
			return err
		}
	}
	return w.Error()
}

func (f *CSVFormatter) buildRow(rank int, s suspicious.Score) []string {
	return []string{
		fmt.Sprintf("%d", rank),
		s.TreatmentVar,
		fmt.Sprintf("%.6f", s.Suspiciousness),
		fmt.Sprintf("%.6f", s.Min),
		fmt.Sprintf("%.6f", s.Max),
		formatValues(s.Values),
	}
}

func formatValues(values []float64) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ";"
		}
		out += fmt.Sprintf("%.4f", v)
	}
	return out
}
