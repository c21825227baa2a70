package output

// VerbosityLevel controls output detail.
type VerbosityLevel int

const (
	// VerbosityDefault shows the ranking/artifact output only.
	VerbosityDefault VerbosityLevel = iota
	// VerbosityVerbose adds per-stage progress and statistics.
	VerbosityVerbose
	// VerbosityDebug adds elapsed-time-prefixed diagnostics.
	VerbosityDebug
)

// OutputFormat selects how a ranking is rendered.
type OutputFormat string

const (
	FormatCSV   OutputFormat = "csv"
	FormatSARIF OutputFormat = "sarif"
)

// OutputOptions configures how pipeline output is rendered.
type OutputOptions struct {
	Verbosity VerbosityLevel
	Format    OutputFormat

	// FailOnSuspicious mirrors --fail-on-suspicious; negative means no
	// threshold configured. See output.DetermineExitCode.
	FailOnSuspicious float64
}

// NewDefaultOptions returns options with sensible defaults: default
// verbosity, CSV output, no configured failure threshold.
func NewDefaultOptions() *OutputOptions {
	return &OutputOptions{
		Verbosity:        VerbosityDefault,
		Format:           FormatCSV,
		FailOnSuspicious: -1,
	}
}

// ShouldShowStatistics reports whether verbose-tier output should be
// printed.
func (o *OutputOptions) ShouldShowStatistics() bool {
	return o.Verbosity >= VerbosityVerbose
}

// ShouldShowDebug reports whether debug-tier output should be printed.
func (o *OutputOptions) ShouldShowDebug() bool {
	return o.Verbosity >= VerbosityDebug
}
