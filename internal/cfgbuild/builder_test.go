package cfgbuild

import (
	"testing"

	"github.com/mkelesidou/kausal-go/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmptyBody(t *testing.T) {
	m := &ast.Method{Name: "empty", Body: &ast.Block{}}
	cfg, err := Build(m)
	require.NoError(t, err)

	start, ok := cfg.FindByLabelPrefix("Method Start:")
	require.True(t, ok)
	end, ok := cfg.FindByLabelPrefix("Method End:")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(start.ID), end.ID)
}

func TestBuildLinearStatements(t *testing.T) {
	m := &ast.Method{
		Name: "lin",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.VarDecl{Name: "x", Type: "int", Init: ast.NewExpr("1")},
			&ast.Assign{LHS: "x", RHS: ast.NewExpr("x + 1")},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)
	assert.Len(t, cfg.Nodes(), 4) // start, decl, assign, end
}

func TestBuildIfNoElseMerges(t *testing.T) {
	m := &ast.Method{
		Name: "f",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.If{
				Cond: ast.NewExpr("x > 0"),
				Then: &ast.Block{Stmts: []ast.Stmt{&ast.Assign{LHS: "y", RHS: ast.NewExpr("1")}}},
			},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)

	cond, ok := cfg.FindByLabelPrefix("if (x > 0)")
	require.True(t, ok)
	// the condition node has two successors: the then-branch and the implicit merge/end path.
	assert.Len(t, cfg.Successors(cond.ID), 2)
}

func TestBuildIfElseBothTerminalSkipsMerge(t *testing.T) {
	m := &ast.Method{
		Name: "f",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.If{
				Cond: ast.NewExpr("x > 0"),
				Then: &ast.Block{Stmts: []ast.Stmt{&ast.Return{Result: ast.NewExpr("1")}}},
				Else: &ast.Block{Stmts: []ast.Stmt{&ast.Return{Result: ast.NewExpr("2")}}},
			},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)
	for _, n := range cfg.Nodes() {
		assert.NotEqual(t, "if-merge", n.Label)
	}
}

func TestBuildWhileLoopBackEdge(t *testing.T) {
	m := &ast.Method{
		Name: "f",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.While{
				Cond: ast.NewExpr("i < n"),
				Body: &ast.Block{Stmts: []ast.Stmt{
					&ast.CompoundAssign{LHS: "i", Op: "+", RHS: ast.NewExpr("1")},
				}},
			},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)

	cond, ok := cfg.FindByLabelPrefix("while (i < n)")
	require.True(t, ok)
	exit, ok := cfg.FindByLabelPrefix("while-exit")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(cond.ID), exit.ID)

	body, ok := cfg.FindByLabelPrefix("i += 1")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(body.ID), cond.ID)
}

func TestBuildBreakTargetsLoopExit(t *testing.T) {
	m := &ast.Method{
		Name: "f",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.While{
				Cond: ast.NewExpr("true"),
				Body: &ast.Block{Stmts: []ast.Stmt{&ast.Break{}}},
			},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)

	exit, ok := cfg.FindByLabelPrefix("while-exit")
	require.True(t, ok)
	brk, ok := cfg.FindByLabelPrefix("break")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(brk.ID), exit.ID)
}

func TestBuildContinueTargetsLoopCond(t *testing.T) {
	m := &ast.Method{
		Name: "f",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.While{
				Cond: ast.NewExpr("true"),
				Body: &ast.Block{Stmts: []ast.Stmt{&ast.Continue{}}},
			},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)

	cond, ok := cfg.FindByLabelPrefix("while (true)")
	require.True(t, ok)
	cont, ok := cfg.FindByLabelPrefix("continue")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(cont.ID), cond.ID)
}

func TestBuildReturnEdgesToMethodEnd(t *testing.T) {
	m := &ast.Method{
		Name:       "f",
		ReturnType: "int",
		Body: &ast.Block{Stmts: []ast.Stmt{
			&ast.Return{Result: ast.NewExpr("1")},
		}},
	}
	cfg, err := Build(m)
	require.NoError(t, err)

	end, ok := cfg.FindByLabelPrefix("Method End:")
	require.True(t, ok)
	ret, ok := cfg.FindByLabelPrefix("return 1")
	require.True(t, ok)
	assert.Contains(t, cfg.Successors(ret.ID), end.ID)
}
