package cfgbuild

import (
	"fmt"
	"strings"

	"github.com/mkelesidou/kausal-go/internal/ast"
)

// GraphConstructionError is raised for malformed control flow the
// builder cannot recover from locally (spec §7).
type GraphConstructionError struct {
	Msg string
}

func (e *GraphConstructionError) Error() string { return "graph construction: " + e.Msg }

// loopFrame is the LoopContext of spec §3: the (cond, exit) pair that
// break/continue inside the current loop body resolve against.
type loopFrame struct {
	cond *CFGNode
	exit *CFGNode
}

type builder struct {
	cfg    *ControlFlowGraph
	loops  []loopFrame
	danglingBreaks int
}

// pair is the (entry, exit) of a constructed sub-graph, per §4.1's
// contract for composing statement fragments.
type pair struct {
	entry *CFGNode
	exit  *CFGNode
}

// Build constructs the CFG for a single method.
func Build(m *ast.Method) (*ControlFlowGraph, error) {
	cfg := New(m.Name)
	b := &builder{cfg: cfg}

	start := cfg.AddNode("Method Start: " + m.Name)
	end := cfg.AddNode("Method End: " + m.Name)

	if m.Body == nil || len(m.Body.Stmts) == 0 {
		cfg.AddEdge(start, end)
		return cfg, nil
	}

	p := b.visitBlock(m.Body, end)
	cfg.AddEdge(start, p.entry)
	cfg.AddEdge(p.exit, end)
	return cfg, nil
}

func isTerminal(n *CFGNode, cfg *ControlFlowGraph) bool {
	if strings.HasPrefix(n.Label, "return") || strings.HasPrefix(n.Label, "throw") {
		return true
	}
	return len(cfg.Successors(n.ID)) == 0
}

func (b *builder) visitBlock(blk *ast.Block, methodEnd *CFGNode) pair {
	if blk == nil || len(blk.Stmts) == 0 {
		n := b.cfg.AddNode("empty block")
		return pair{n, n}
	}
	var first, prevExit *CFGNode
	for _, s := range blk.Stmts {
		p := b.visitStmt(s, methodEnd)
		if first == nil {
			first = p.entry
		} else {
			b.cfg.AddEdge(prevExit, p.entry)
		}
		prevExit = p.exit
	}
	return pair{first, prevExit}
}

func (b *builder) visitStmt(s ast.Stmt, methodEnd *CFGNode) pair {
	switch n := s.(type) {
	case *ast.Block:
		return b.visitBlock(n, methodEnd)

	case *ast.VarDecl, *ast.Assign, *ast.CompoundAssign, *ast.ExprStmt:
		node := b.cfg.AddNode(simpleLabel(n))
		return pair{node, node}

	case *ast.Return:
		label := "return"
		if n.Result != nil {
			label = "return " + n.Result.String()
		}
		node := b.cfg.AddNode(label)
		b.cfg.AddEdge(node, methodEnd)
		return pair{node, node}

	case *ast.Break:
		node := b.cfg.AddNode(breakLabel("break", n.Label))
		if len(b.loops) == 0 {
			b.danglingBreaks++
			return pair{node, node}
		}
		target := b.loops[len(b.loops)-1].exit
		b.cfg.AddEdge(node, target)
		return pair{node, node}

	case *ast.Continue:
		node := b.cfg.AddNode(breakLabel("continue", n.Label))
		if len(b.loops) == 0 {
			b.danglingBreaks++
			return pair{node, node}
		}
		target := b.loops[len(b.loops)-1].cond
		b.cfg.AddEdge(node, target)
		return pair{node, node}

	case *ast.If:
		return b.visitIf(n, methodEnd)

	case *ast.While:
		return b.visitWhile(n, methodEnd)

	case *ast.For:
		return b.visitFor(n, methodEnd)

	case *ast.ForEach:
		return b.visitForEach(n, methodEnd)

	case *ast.DoWhile:
		return b.visitDoWhile(n, methodEnd)

	case *ast.Switch:
		return b.visitSwitch(n, methodEnd)

	default:
		node := b.cfg.AddNode(fmt.Sprintf("unknown: %T", n))
		return pair{node, node}
	}
}

func simpleLabel(s ast.Stmt) string {
	switch n := s.(type) {
	case *ast.VarDecl:
		if n.Init != nil {
			return fmt.Sprintf("%s %s = %s", n.Type, n.Name, n.Init.String())
		}
		return fmt.Sprintf("%s %s", n.Type, n.Name)
	case *ast.Assign:
		return fmt.Sprintf("%s = %s", n.LHS, n.RHS.String())
	case *ast.CompoundAssign:
		return fmt.Sprintf("%s %s= %s", n.LHS, n.Op, n.RHS.String())
	case *ast.ExprStmt:
		return n.X.String()
	default:
		return ""
	}
}

func breakLabel(kind, label string) string {
	if label == "" {
		return kind
	}
	return kind + " " + label
}

func (b *builder) visitIf(n *ast.If, methodEnd *CFGNode) pair {
	cond := b.cfg.AddNode("if (" + n.Cond.String() + ")")
	thenP := b.visitBlock(n.Then, methodEnd)
	b.cfg.AddEdge(cond, thenP.entry)
	thenTerm := isTerminal(thenP.exit, b.cfg)

	if n.Else == nil {
		if thenTerm {
			return pair{cond, cond}
		}
		merge := b.cfg.AddNode("if-merge")
		b.cfg.AddEdge(cond, merge)
		b.cfg.AddEdge(thenP.exit, merge)
		return pair{cond, merge}
	}

	elseP := b.visitBlock(n.Else, methodEnd)
	b.cfg.AddEdge(cond, elseP.entry)
	elseTerm := isTerminal(elseP.exit, b.cfg)

	if thenTerm && elseTerm {
		return pair{cond, thenP.exit}
	}
	merge := b.cfg.AddNode("if-merge")
	if !thenTerm {
		b.cfg.AddEdge(thenP.exit, merge)
	}
	if !elseTerm {
		b.cfg.AddEdge(elseP.exit, merge)
	}
	return pair{cond, merge}
}

func (b *builder) visitWhile(n *ast.While, methodEnd *CFGNode) pair {
	cond := b.cfg.AddNode("while (" + n.Cond.String() + ")")
	exit := b.cfg.AddNode("while-exit")

	b.loops = append(b.loops, loopFrame{cond: cond, exit: exit})
	bodyP := b.visitBlock(n.Body, methodEnd)
	b.loops = b.loops[:len(b.loops)-1]

	b.cfg.AddEdge(cond, bodyP.entry)
	b.cfg.AddEdge(bodyP.exit, cond)
	b.cfg.AddEdge(cond, exit)
	return pair{cond, exit}
}

func (b *builder) visitFor(n *ast.For, methodEnd *CFGNode) pair {
	var initNode *CFGNode
	if n.Init != nil {
		initNode = b.cfg.AddNode("for-init: " + simpleLabel(n.Init))
	}
	cond := b.cfg.AddNode("for-cond:" + n.Cond.String())
	var updateNode *CFGNode
	if n.Update != nil {
		updateNode = b.cfg.AddNode("for-update:" + simpleLabel(n.Update))
	}
	exit := b.cfg.AddNode("for-exit")

	if initNode != nil {
		b.cfg.AddEdge(initNode, cond)
	}

	b.loops = append(b.loops, loopFrame{cond: cond, exit: exit})
	bodyP := b.visitBlock(n.Body, methodEnd)
	b.loops = b.loops[:len(b.loops)-1]

	b.cfg.AddEdge(cond, bodyP.entry)
	if updateNode != nil {
		b.cfg.AddEdge(bodyP.exit, updateNode)
		b.cfg.AddEdge(updateNode, cond)
	} else {
		b.cfg.AddEdge(bodyP.exit, cond)
	}
	b.cfg.AddEdge(cond, exit)

	entry := cond
	if initNode != nil {
		entry = initNode
	}
	return pair{entry, exit}
}

func (b *builder) visitForEach(n *ast.ForEach, methodEnd *CFGNode) pair {
	cond := b.cfg.AddNode(fmt.Sprintf("for-each: %s : %s", n.VarName, n.Iter.String()))
	exit := b.cfg.AddNode("for-exit")

	b.loops = append(b.loops, loopFrame{cond: cond, exit: exit})
	bodyP := b.visitBlock(n.Body, methodEnd)
	b.loops = b.loops[:len(b.loops)-1]

	b.cfg.AddEdge(cond, bodyP.entry)
	b.cfg.AddEdge(bodyP.exit, cond)
	b.cfg.AddEdge(cond, exit)
	return pair{cond, exit}
}

func (b *builder) visitDoWhile(n *ast.DoWhile, methodEnd *CFGNode) pair {
	cond := b.cfg.AddNode("do-while-cond:" + n.Cond.String())
	exit := b.cfg.AddNode("do-while-exit")

	b.loops = append(b.loops, loopFrame{cond: cond, exit: exit})
	bodyP := b.visitBlock(n.Body, methodEnd)
	b.loops = b.loops[:len(b.loops)-1]

	b.cfg.AddEdge(bodyP.exit, cond)
	b.cfg.AddEdge(cond, bodyP.entry)
	b.cfg.AddEdge(cond, exit)
	return pair{bodyP.entry, exit}
}

func (b *builder) visitSwitch(n *ast.Switch, methodEnd *CFGNode) pair {
	selector := b.cfg.AddNode("switch (" + n.Selector.String() + ")")
	merge := b.cfg.AddNode("switch-merge")

	for _, c := range n.Cases {
		var label string
		if c.IsDefault {
			label = "default:"
		} else {
			label = "case " + c.Literal
		}
		caseNode := b.cfg.AddNode(label)
		b.cfg.AddEdge(selector, caseNode)

		if len(c.Body.Stmts) == 0 {
			b.cfg.AddEdge(caseNode, merge)
			continue
		}
		bodyP := b.visitBlock(c.Body, methodEnd)
		b.cfg.AddEdge(caseNode, bodyP.entry)
		if !isTerminal(bodyP.exit, b.cfg) {
			b.cfg.AddEdge(bodyP.exit, merge)
		}
	}
	return pair{selector, merge}
}
