// Package gsa rewrites a predicate-hoisted method into gated static
// single assignment form (spec §4.6): every variable write gets a
// fresh numbered version, every read is rewritten to name the version
// it actually observes, if/else merges are gated back together for
// the variables the spec tracks across a join, and the method is
// converted to single-exit form before anything downstream (the
// instrumenter, in particular) has to reason about control flow
// again.
package gsa

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mkelesidou/kausal-go/internal/ast"
)

// mergeCandidate is the variable name the spec's gating step applies
// to: a method-local conventionally named "result" that both arms of
// an if/else are expected to assign before falling through. This is
// the §9 Open Question decision — the spec only worked the gating
// rule through on this one convention, so that is what gets gated;
// every other variable written on both arms simply carries its
// per-branch version forward unmerged, which is sound (later reads
// pick up whichever branch's version reached them through the CDG)
// even though it does not produce a single merged name for them.
const mergeCandidate = "result"

var versionedName = regexp.MustCompile(`^(.*)_(\d+)$`)

// alreadyTransformed reports whether m looks like it has already been
// through Transform, so a second call is a no-op (idempotence per
// spec §8): the body is wrapped in a "methodBody:" label.
func alreadyTransformed(m *ast.Method) bool {
	if m.Body == nil || len(m.Body.Stmts) == 0 {
		return false
	}
	l, ok := m.Body.Stmts[0].(*ast.Labeled)
	return ok && l.Label == "methodBody"
}

// Transform rewrites m in place into GSA form and returns it.
func Transform(m *ast.Method) *ast.Method {
	if alreadyTransformed(m) {
		return m
	}

	t := &transformer{versions: map[string]int{}, temps: 0}
	for i := range m.Params {
		p := &m.Params[i]
		v := 0
		if p.IsBool {
			v = 1
		}
		t.versions[p.Name] = v
		p.Name = versionName(p.Name, v)
	}

	m.Body = t.block(m.Body)
	convertSingleExit(m)
	return m
}

func versionName(base string, v int) string {
	return fmt.Sprintf("%s_%d", base, v)
}

type transformer struct {
	versions map[string]int
	temps    int
}

func (t *transformer) freshTemp() string {
	name := fmt.Sprintf("t%d", t.temps)
	t.temps++
	return name
}

// currentRead returns the current versioned name for base. A read of a
// variable with no recorded version (one that precedes any write to it,
// e.g. a field or a variable this pass does not track) falls back to
// the base name unchanged; nothing is declared for it.
func (t *transformer) currentRead(base string) string {
	v, ok := t.versions[base]
	if !ok {
		return base
	}
	return versionName(base, v)
}

func (t *transformer) write(base string) string {
	v := t.versions[base] + 1
	if _, ok := t.versions[base]; !ok {
		v = 0
	}
	t.versions[base] = v
	return versionName(base, v)
}

// rewriteExpr substitutes every tracked identifier in e with its
// current versioned name, by whole-word textual substitution — the
// same textual-substitution model internal/ast.Expr uses everywhere
// else, since expressions are kept as source text rather than a
// parsed tree.
func (t *transformer) rewriteExpr(e *ast.Expr) *ast.Expr {
	if e == nil {
		return nil
	}
	text := e.Text
	for _, id := range e.Idents() {
		if versionedName.MatchString(id) {
			continue // already a versioned name, e.g. re-running over GSA output
		}
		v, ok := t.versions[id]
		if !ok {
			continue
		}
		text = replaceIdent(text, id, versionName(id, v))
	}
	return ast.NewExpr(text)
}

var identBoundary = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

func replaceIdent(text, from, to string) string {
	return identBoundary.ReplaceAllStringFunc(text, func(tok string) string {
		if tok == from {
			return to
		}
		return tok
	})
}

func (t *transformer) block(b *ast.Block) *ast.Block {
	if b == nil {
		return nil
	}
	out := &ast.Block{}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, t.stmt(s)...)
	}
	return out
}

func (t *transformer) stmt(s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.Block:
		return []ast.Stmt{t.block(n)}

	case *ast.VarDecl:
		if n.Init != nil {
			n.Init = t.rewriteExpr(n.Init)
		}
		n.Name = t.write(n.Name)
		return []ast.Stmt{n}

	case *ast.Assign:
		n.RHS = t.rewriteExpr(n.RHS)
		n.LHS = t.write(n.LHS)
		return []ast.Stmt{n}

	case *ast.CompoundAssign:
		return t.compoundAssign(n)

	case *ast.ExprStmt:
		n.X = t.rewriteExpr(n.X)
		return []ast.Stmt{n}

	case *ast.Return:
		if n.Result != nil {
			n.Result = t.rewriteExpr(n.Result)
		}
		return []ast.Stmt{n}

	case *ast.If:
		return t.ifStmt(n)

	case *ast.While:
		n.Cond = t.rewriteExpr(n.Cond)
		n.Body = t.block(n.Body)
		return []ast.Stmt{n}

	case *ast.DoWhile:
		n.Body = t.block(n.Body)
		n.Cond = t.rewriteExpr(n.Cond)
		return []ast.Stmt{n}

	case *ast.For:
		if n.Init != nil {
			n.Init = t.stmt(n.Init)[0]
		}
		n.Cond = t.rewriteExpr(n.Cond)
		n.Body = t.block(n.Body)
		if n.Update != nil {
			n.Update = t.stmt(n.Update)[0]
		}
		return []ast.Stmt{n}

	case *ast.ForEach:
		n.Iter = t.rewriteExpr(n.Iter)
		n.VarName = t.write(n.VarName)
		n.Body = t.block(n.Body)
		return []ast.Stmt{n}

	case *ast.Switch:
		n.Selector = t.rewriteExpr(n.Selector)
		for _, c := range n.Cases {
			c.Body = t.block(c.Body)
		}
		return []ast.Stmt{n}

	case *ast.Labeled:
		n.Stmt = t.stmt(n.Stmt)[0]
		return []ast.Stmt{n}

	default:
		return []ast.Stmt{s}
	}
}

// compoundAssign rewrites a loop-carried "x += e" through an explicit
// temporary: the new value is computed from the variable's
// pre-assignment version and bound to a fresh local before the
// variable itself is rewritten to its next version, so a later read
// of the temporary (useful for instrumentation and for the
// suspiciousness engine's per-assignment tracing) never has to
// re-derive what changed.
func (t *transformer) compoundAssign(n *ast.CompoundAssign) []ast.Stmt {
	rhs := t.rewriteExpr(n.RHS)
	cur := t.currentRead(n.LHS)
	temp := t.freshTemp()
	tempDecl := &ast.VarDecl{
		Name: temp,
		Type: "var",
		Init: ast.NewExpr(fmt.Sprintf("%s %s %s", cur, n.Op, rhs.String())),
	}
	newName := t.write(n.LHS)
	assign := &ast.Assign{LHS: newName, RHS: ast.NewExpr(temp)}
	return []ast.Stmt{tempDecl, assign}
}

// ifStmt transforms both arms independently (each inherits a copy of
// the current version map so versions created on one arm don't leak
// into the other), then gates mergeCandidate back together if both
// arms wrote it.
func (t *transformer) ifStmt(n *ast.If) []ast.Stmt {
	n.Cond = t.rewriteExpr(n.Cond)

	before := cloneVersions(t.versions)
	thenT := &transformer{versions: cloneVersions(before), temps: t.temps}
	n.Then = thenT.block(n.Then)
	t.temps = thenT.temps

	var elseT *transformer
	if n.Else != nil {
		elseT = &transformer{versions: cloneVersions(before), temps: t.temps}
		n.Else = elseT.block(n.Else)
		t.temps = elseT.temps
	}

	// Merge every variable version forward: a variable written on
	// only one arm keeps that arm's version after the if (matching
	// the spec's textual-substitution model, where the other arm
	// simply never executed); a variable written on both arms is
	// gated if it is the mergeCandidate, otherwise the then-arm's
	// version wins for subsequent unconditional reads, which is safe
	// because the CDG still records that the read depends on which
	// arm ran.
	merged := cloneVersions(before)
	for k, v := range thenT.versions {
		merged[k] = v
	}
	if elseT != nil {
		for k, v := range elseT.versions {
			if _, wroteThen := thenT.versions[k]; wroteThen && k == mergeCandidate {
				continue // gated explicitly below
			}
			if _, wroteBefore := before[k]; !wroteBefore || thenT.versions[k] == before[k] {
				merged[k] = v
			}
		}
	}

	result := []ast.Stmt{n}
	if elseT != nil {
		thenV, thenWrote := thenT.versions[mergeCandidate]
		elseV, elseWrote := elseT.versions[mergeCandidate]
		if thenWrote && elseWrote && thenV != before[mergeCandidate] && elseV != before[mergeCandidate] {
			t.versions = merged
			gatedVer := t.write(mergeCandidate)
			gate := &ast.VarDecl{
				Name: gatedVer,
				Type: "var",
				Init: ast.NewExpr(fmt.Sprintf("%s ? %s : %s", n.Cond.String(),
					versionName(mergeCandidate, thenV), versionName(mergeCandidate, elseV))),
			}
			result = append(result, gate)
			return result
		}
	}

	t.versions = merged
	return result
}

func cloneVersions(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// exitVar is the single unversioned local the spec's single-exit
// conversion introduces (spec §4.6: "introduce one local declaration
// _exit ... and end with return _exit"). Unlike every other variable
// this pass rewrites, it is deliberately NOT SSA-versioned: every
// return path assigns the same bare name, so whichever branch actually
// ran is the one the trailing "return _exit" observes. The
// instrumenter declares it on the first assignment it walks and
// treats every later assignment as a plain write, so no explicit
// declaration is needed here.
const exitVar = "_exit"

// convertSingleExit rewrites every Return inside m's body into an
// assignment to exitVar followed by a break out of a synthetic
// "methodBody:" label, then appends one final return of exitVar after
// the label (spec §4.6's single-exit conversion). Void methods get a
// label-wrapped body and a bare trailing return with no value.
func convertSingleExit(m *ast.Method) {
	hasReturn := false
	replaceReturns(m.Body, &hasReturn)

	wrapped := &ast.Labeled{Label: "methodBody", Stmt: m.Body}
	newBody := &ast.Block{Stmts: []ast.Stmt{wrapped}}

	if !m.IsVoid() {
		if hasReturn {
			newBody.Stmts = append(newBody.Stmts, &ast.Return{Result: ast.NewExpr(exitVar)})
		}
	} else {
		newBody.Stmts = append(newBody.Stmts, &ast.Return{})
	}
	m.Body = newBody
}

// replaceReturns walks every statement reachable from b (including
// into nested blocks and control constructs) replacing "return e" with
// "_exit = e; break methodBody;". Every return path assigns the same
// bare exitVar name — there is exactly one exit variable per method,
// not one per return site.
func replaceReturns(b *ast.Block, hasReturn *bool) {
	if b == nil {
		return
	}
	for i, s := range b.Stmts {
		b.Stmts[i] = replaceReturnsInStmt(s, hasReturn)
	}
}

func replaceReturnsInStmt(s ast.Stmt, hasReturn *bool) ast.Stmt {
	switch n := s.(type) {
	case *ast.Block:
		replaceReturns(n, hasReturn)
		return n
	case *ast.Return:
		*hasReturn = true
		brk := &ast.Break{Label: "methodBody"}
		if n.Result == nil {
			return &ast.Block{Stmts: []ast.Stmt{brk}}
		}
		assign := &ast.Assign{LHS: exitVar, RHS: n.Result}
		return &ast.Block{Stmts: []ast.Stmt{assign, brk}}
	case *ast.If:
		replaceReturns(n.Then, hasReturn)
		replaceReturns(n.Else, hasReturn)
		return n
	case *ast.While:
		replaceReturns(n.Body, hasReturn)
		return n
	case *ast.DoWhile:
		replaceReturns(n.Body, hasReturn)
		return n
	case *ast.For:
		replaceReturns(n.Body, hasReturn)
		return n
	case *ast.ForEach:
		replaceReturns(n.Body, hasReturn)
		return n
	case *ast.Switch:
		for _, c := range n.Cases {
			replaceReturns(c.Body, hasReturn)
		}
		return n
	case *ast.Labeled:
		n.Stmt = replaceReturnsInStmt(n.Stmt, hasReturn)
		return n
	default:
		return s
	}
}

// ParseVersion splits a GSA name like "count_3" into its base and
// integer version, for consumers (instrument, parentmap) that need to
// reason about which write produced a given name.
func ParseVersion(name string) (base string, version int, ok bool) {
	m := versionedName.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	v, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], v, true
}
