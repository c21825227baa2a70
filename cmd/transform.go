package cmd

import (
	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/mkelesidou/kausal-go/internal/gsa"
	"github.com/mkelesidou/kausal-go/internal/instrument"
	"github.com/mkelesidou/kausal-go/internal/predicate"
)

// runPredicate applies stage §4.5 (predicate hoisting) alone.
func runPredicate(m *ast.Method) *ast.Method {
	return predicate.Transform(m)
}

// runGSA chains predicate hoisting into GSA conversion (§4.5 then
// §4.6) — GSA assumes hoisted, named predicates are already in
// place.
func runGSA(m *ast.Method) *ast.Method {
	return gsa.Transform(runPredicate(m))
}

// runInstrument chains the full per-method transform pipeline through
// instrumentation (§4.5-§4.7): predicate hoisting, GSA conversion,
// then trace-call insertion.
func runInstrument(m *ast.Method) *ast.Method {
	return instrument.Transform(runGSA(m))
}
