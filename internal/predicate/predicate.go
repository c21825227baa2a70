// Package predicate hoists branch and loop conditions into named
// boolean (or, for switch selectors, int) temporaries before SSA
// renaming (spec §4.5). Hoisting runs as an ast.Method-to-ast.Method
// rewrite so every later stage only ever has to reason about named
// reads, never about re-evaluating a condition expression.
package predicate

import (
	"fmt"

	"github.com/mkelesidou/kausal-go/internal/ast"
)

// Transform rewrites m in place, returning it for chaining. Every
// if/while/for condition becomes a declaration of a fresh "P_k"
// boolean immediately before the construct, with the construct's
// condition replaced by a read of that boolean; every switch selector
// becomes a fresh "S_k" declared as int, whatever the selector's type.
func Transform(m *ast.Method) *ast.Method {
	t := &transformer{}
	m.Body = t.block(m.Body)
	return m
}

type transformer struct {
	predSeq int
	selSeq  int
}

func (t *transformer) freshPred() string {
	name := fmt.Sprintf("P_%d", t.predSeq)
	t.predSeq++
	return name
}

func (t *transformer) freshSel() string {
	name := fmt.Sprintf("S_%d", t.selSeq)
	t.selSeq++
	return name
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

// stmt lowers one statement, returning it prefixed by whatever
// predicate declarations its own condition required. Statements with
// no condition return a one-element slice.
func (t *transformer) stmt(s ast.Stmt) []ast.Stmt {
	switch n := s.(type) {
	case *ast.Block:
		return []ast.Stmt{t.block(n)}

	case *ast.If:
		pred := t.freshPred()
		decl := &ast.VarDecl{Name: pred, Type: "boolean", Init: n.Cond}
		n.Cond = ast.NewExpr(pred)
		n.Then = t.block(n.Then)
		if n.Else != nil {
			n.Else = t.block(n.Else)
		}
		return []ast.Stmt{decl, n}

	case *ast.While:
		pred := t.freshPred()
		decl := &ast.VarDecl{Name: pred, Type: "boolean", Init: n.Cond}
		refresh := &ast.Assign{LHS: pred, RHS: n.Cond}
		n.Cond = ast.NewExpr(pred)
		n.Body = t.block(n.Body)
		// Re-evaluate the predicate at the end of every iteration so
		// the next loop test sees a fresh read, not a stale version.
		n.Body.Stmts = append(n.Body.Stmts, refresh)
		return []ast.Stmt{decl, n}

	case *ast.DoWhile:
		pred := t.freshPred()
		n.Body = t.block(n.Body)
		refresh := &ast.Assign{LHS: pred, RHS: n.Cond}
		n.Body.Stmts = append(n.Body.Stmts, refresh)
		decl := &ast.VarDecl{Name: pred, Type: "boolean", Init: n.Cond}
		n.Cond = ast.NewExpr(pred)
		return []ast.Stmt{decl, n}

	case *ast.For:
		// Rewritten into init + while-with-predicate-refresh, per the
		// spec's "for loops desugar into while loops under hoisting"
		// rule: the update statement moves to the end of the body so
		// the predicate refresh after it sees the post-update state.
		// The whole init/decl/while sequence is wrapped in its own
		// block so the predicate's (and the loop variable's) scope is
		// bounded — two sibling for loops reusing the same loop
		// variable name would otherwise collide in the enclosing block.
		pred := t.freshPred()
		var pre []ast.Stmt
		if n.Init != nil {
			pre = append(pre, n.Init)
		}
		pre = append(pre, &ast.VarDecl{Name: pred, Type: "boolean", Init: n.Cond})

		body := t.block(n.Body)
		if n.Update != nil {
			body.Stmts = append(body.Stmts, n.Update)
		}
		body.Stmts = append(body.Stmts, &ast.Assign{LHS: pred, RHS: n.Cond})

		w := &ast.While{Cond: ast.NewExpr(pred), Body: body}
		return []ast.Stmt{&ast.Block{Stmts: append(pre, w)}}

	case *ast.ForEach:
		n.Body = t.block(n.Body)
		return []ast.Stmt{n}

	case *ast.Switch:
		sel := t.freshSel()
		decl := &ast.VarDecl{Name: sel, Type: "int", Init: n.Selector}
		n.Selector = ast.NewExpr(sel)
		for _, c := range n.Cases {
			c.Body = t.block(c.Body)
		}
		return []ast.Stmt{decl, n}

	case *ast.Labeled:
		inner := t.stmt(n.Stmt)
		if len(inner) == 1 {
			n.Stmt = inner[0]
			return []ast.Stmt{n}
		}
		// A label can only wrap a single statement; if hoisting
		// expanded it into several, wrap the group in a block so the
		// label still points at one statement.
		n.Stmt = &ast.Block{Stmts: inner}
		return []ast.Stmt{n}

	default:
		return []ast.Stmt{s}
	}
}
