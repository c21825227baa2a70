// Package errors defines the typed error kinds of spec §7. Each stage
// returns one of these (or wraps a lower-level error with one) so the
// CLI can surface "the failing stage's name and first error" as the
// spec's propagation rule requires.
package errors

import "fmt"

// Kind classifies a pipeline error for CLI reporting and for callers
// that need to decide whether to keep going (warn-and-skip) or abort
// the stage.
type Kind string

const (
	KindParse               Kind = "ParseError"
	KindGraphConstruction   Kind = "GraphConstructionError"
	KindAnalysisConvergence Kind = "AnalysisConvergenceError"
	KindTransform           Kind = "TransformError"
	KindIO                  Kind = "IOErrorKind"
	KindModel               Kind = "ModelError"
	KindData                Kind = "DataError"
)

// Error is the common shape for every typed pipeline error.
type Error struct {
	K   Kind
	Msg string
	Err error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.K, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.K, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Kind reports the error kind, used by the CLI to decide the exit
// code and by stages that need to distinguish fail-the-stage kinds
// from warn-and-skip kinds.
func (e *Error) Kind() Kind { return e.K }

func New(k Kind, msg string) *Error {
	return &Error{K: k, Msg: msg}
}

func Wrap(k Kind, msg string, err error) *Error {
	return &Error{K: k, Msg: msg, Err: err}
}
