// Package frontend is a concrete instantiation of the "external AST
// producer" the spec assumes (§1 Out of scope) — it parses a single
// Java-shaped method body with tree-sitter and lowers it to
// internal/ast. Java is the closest grammar available in the example
// corpus to the spec's "C-family statement language": it has true
// ternary expressions, fall-through-free-friendly switch statements,
// do-while, and enhanced-for, all of which the spec's transformer
// stages need to exercise.
//
// This package is a convenience front end, not part of the scored
// core: every later stage operates purely on internal/ast and never
// imports tree-sitter.
package frontend

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/mkelesidou/kausal-go/internal/ast"
)

// ParseError reports a tree-sitter parse failure or a shape this front
// end does not understand.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return "parse error: " + e.Msg }

// Parse parses a compilation unit containing one or more method
// declarations and lowers every one of them to *ast.Method.
func Parse(source []byte) (*ast.Program, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(nil, nil, source)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}
	root := tree.RootNode()

	p := &Program{src: source}
	prog := &ast.Program{}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == "method_declaration" || n.Type() == "constructor_declaration" {
			m, err := p.method(n)
			if err == nil && m != nil {
				prog.Methods = append(prog.Methods, m)
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	if len(prog.Methods) == 0 {
		return nil, &ParseError{Msg: "no method declarations found"}
	}
	return prog, nil
}

// Program holds parse-time state (the shared source buffer) while
// lowering a single compilation unit.
type Program struct {
	src []byte
}

func (p *Program) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(p.src)
}

func (p *Program) method(n *sitter.Node) (*ast.Method, error) {
	name := p.text(n.ChildByFieldName("name"))
	if name == "" {
		name = "ctor"
	}
	retType := p.text(n.ChildByFieldName("type"))

	m := &ast.Method{Name: name, ReturnType: retType}

	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			pd := params.NamedChild(i)
			if pd.Type() != "formal_parameter" {
				continue
			}
			pname := p.text(pd.ChildByFieldName("name"))
			ptype := p.text(pd.ChildByFieldName("type"))
			m.Params = append(m.Params, ast.Param{
				Name:   pname,
				Type:   ptype,
				IsBool: ptype == "boolean",
			})
		}
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		m.Body = &ast.Block{}
		return m, nil
	}
	m.Body = p.block(body)
	return m, nil
}

func pos(n *sitter.Node) ast.Pos {
	if n == nil {
		return ast.Pos{}
	}
	pt := n.StartPoint()
	return ast.Pos{Line: int(pt.Row) + 1, Col: int(pt.Column) + 1}
}

func (p *Program) block(n *sitter.Node) *ast.Block {
	blk := &ast.Block{}
	if n == nil {
		return blk
	}
	// "block" node wraps statements directly; a bare single statement
	// (e.g. "if (x) y = 1;" with no braces) is handled by stmt directly.
	if n.Type() != "block" {
		if s := p.stmt(n); s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
		return blk
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if s := p.stmt(n.NamedChild(i)); s != nil {
			blk.Stmts = append(blk.Stmts, s)
		}
	}
	return blk
}

func (p *Program) stmt(n *sitter.Node) ast.Stmt {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "local_variable_declaration":
		return p.varDecl(n)
	case "expression_statement":
		return p.exprStmt(n)
	case "if_statement":
		return p.ifStmt(n)
	case "while_statement":
		return &ast.While{
			Cond: ast.NewExpr(p.text(n.ChildByFieldName("condition"))),
			Body: p.block(n.ChildByFieldName("body")),
		}
	case "for_statement":
		return p.forStmt(n)
	case "enhanced_for_statement":
		return &ast.ForEach{
			VarName: p.text(n.ChildByFieldName("name")),
			VarType: p.text(n.ChildByFieldName("type")),
			Iter:    ast.NewExpr(p.text(n.ChildByFieldName("value"))),
			Body:    p.block(n.ChildByFieldName("body")),
		}
	case "do_statement":
		return &ast.DoWhile{
			Body: p.block(n.ChildByFieldName("body")),
			Cond: ast.NewExpr(p.text(n.ChildByFieldName("condition"))),
		}
	case "switch_expression", "switch_statement":
		return p.switchStmt(n)
	case "return_statement":
		r := &ast.Return{Pos: pos(n)}
		if n.NamedChildCount() > 0 {
			r.Result = ast.NewExpr(p.text(n.NamedChild(0)))
		}
		return r
	case "break_statement":
		return &ast.Break{Label: p.text(firstIdentChild(n))}
	case "continue_statement":
		return &ast.Continue{Label: p.text(firstIdentChild(n))}
	case "block":
		return p.block(n)
	case ";":
		return nil
	default:
		return &ast.ExprStmt{X: ast.NewExpr(p.text(n)), Pos: pos(n)}
	}
}

func firstIdentChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "identifier" {
			return c
		}
	}
	return nil
}

func (p *Program) varDecl(n *sitter.Node) ast.Stmt {
	typ := p.text(n.ChildByFieldName("type"))
	// local_variable_declaration wraps one or more variable_declarator.
	var first ast.Stmt
	var blk *ast.Block
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		name := p.text(c.ChildByFieldName("name"))
		var init *ast.Expr
		if v := c.ChildByFieldName("value"); v != nil {
			init = ast.NewExpr(p.text(v))
		}
		decl := &ast.VarDecl{Name: name, Type: typ, Init: init, Pos: pos(n)}
		if first == nil {
			first = decl
		} else {
			if blk == nil {
				blk = &ast.Block{Stmts: []ast.Stmt{first}}
			}
			blk.Stmts = append(blk.Stmts, decl)
		}
	}
	if blk != nil {
		return blk
	}
	return first
}

func (p *Program) exprStmt(n *sitter.Node) ast.Stmt {
	if n.NamedChildCount() == 0 {
		return nil
	}
	inner := n.NamedChild(0)
	if inner.Type() == "assignment_expression" {
		lhs := p.text(inner.ChildByFieldName("left"))
		op := p.text(inner.ChildByFieldName("operator"))
		rhsNode := inner.ChildByFieldName("right")
		rhs := ast.NewExpr(p.text(rhsNode))
		switch op {
		case "=":
			return &ast.Assign{LHS: lhs, RHS: rhs, Pos: pos(n)}
		case "+=", "-=", "*=", "/=":
			return &ast.CompoundAssign{LHS: lhs, Op: strings.TrimSuffix(op, "="), RHS: rhs, Pos: pos(n)}
		default:
			return &ast.ExprStmt{X: ast.NewExpr(p.text(inner)), Pos: pos(n)}
		}
	}
	return &ast.ExprStmt{X: ast.NewExpr(p.text(inner)), Pos: pos(n)}
}

func (p *Program) ifStmt(n *sitter.Node) ast.Stmt {
	cond := ast.NewExpr(p.text(n.ChildByFieldName("condition")))
	then := p.block(n.ChildByFieldName("consequence"))
	var els *ast.Block
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Type() == "if_statement" {
			els = &ast.Block{Stmts: []ast.Stmt{p.ifStmt(alt)}}
		} else {
			els = p.block(alt)
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: els}
}

func (p *Program) forStmt(n *sitter.Node) ast.Stmt {
	f := &ast.For{Body: p.block(n.ChildByFieldName("body"))}
	if c := n.ChildByFieldName("condition"); c != nil {
		f.Cond = ast.NewExpr(p.text(c))
	} else {
		f.Cond = ast.NewExpr("true")
	}
	if ini := n.ChildByFieldName("init"); ini != nil {
		f.Init = p.stmt(ini)
	}
	if upd := n.ChildByFieldName("update"); upd != nil {
		f.Update = p.stmt(upd)
	}
	return f
}

func (p *Program) switchStmt(n *sitter.Node) ast.Stmt {
	sw := &ast.Switch{Selector: ast.NewExpr(p.text(n.ChildByFieldName("condition")))}
	body := n.ChildByFieldName("body")
	if body == nil {
		return sw
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		grp := body.NamedChild(i)
		if grp.Type() != "switch_block_statement_group" && grp.Type() != "switch_rule" {
			continue
		}
		label := grp.NamedChild(0)
		c := &ast.Case{Body: &ast.Block{}}
		if label != nil && label.Type() == "switch_label" {
			txt := p.text(label)
			if strings.HasPrefix(strings.TrimSpace(txt), "default") {
				c.IsDefault = true
			} else {
				c.Literal = strings.TrimSpace(strings.TrimPrefix(txt, "case"))
			}
		}
		for j := 1; j < int(grp.NamedChildCount()); j++ {
			if s := p.stmt(grp.NamedChild(j)); s != nil {
				c.Body.Stmts = append(c.Body.Stmts, s)
			}
		}
		sw.Cases = append(sw.Cases, c)
	}
	return sw
}
