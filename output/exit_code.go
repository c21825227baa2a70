package output

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/suspicious"
)

// ExitCode represents the exit code for the CLI.
type ExitCode int

const (
	// ExitCodeSuccess indicates the pipeline ran to completion with no
	// score crossing --fail-on-suspicious.
	ExitCodeSuccess ExitCode = 0

	// ExitCodeThresholdExceeded indicates at least one treatment
	// variable's suspiciousness met or exceeded --fail-on-suspicious.
	ExitCodeThresholdExceeded ExitCode = 1

	// ExitCodeError indicates a pipeline stage failed outright (parse,
	// graph construction, non-convergence, I/O, or model error).
	ExitCodeError ExitCode = 2
)

// InvalidThresholdError is returned when --fail-on-suspicious is
// outside the valid [0, 1] suspiciousness range.
type InvalidThresholdError struct {
	Value float64
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid --fail-on-suspicious value %.4f, must be in [0, 1]", e.Value)
}

// ValidateThreshold checks a --fail-on-suspicious value is usable.
// A negative threshold means "no threshold configured" and is valid.
func ValidateThreshold(threshold float64) error {
	if threshold < 0 {
		return nil
	}
	if threshold > 1 {
		return &InvalidThresholdError{Value: threshold}
	}
	return nil
}

// DetermineExitCode calculates the CLI's exit code from a ranking.
//
// Precedence:
//  1. ExitCodeError - if hadErrors is true.
//  2. ExitCodeThresholdExceeded - if threshold >= 0 and any score's
//     Suspiciousness meets or exceeds it.
//  3. ExitCodeSuccess - otherwise.
func DetermineExitCode(scores []suspicious.Score, threshold float64, hadErrors bool) ExitCode {
	if hadErrors {
		return ExitCodeError
	}
	if threshold < 0 {
		return ExitCodeSuccess
	}
	for _, s := range scores {
		if s.Suspiciousness >= threshold {
			return ExitCodeThresholdExceeded
		}
	}
	return ExitCodeSuccess
}
