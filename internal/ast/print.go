package ast

import (
	"fmt"
	"strings"
)

// Print renders a method back to source text. It is deterministic and
// whitespace-stable: two structurally identical trees always print
// byte-identical output, which is what the GSA idempotence property
// (spec §8) is checked against.
func Print(m *Method) string {
	var b strings.Builder
	b.WriteString(signature(m))
	b.WriteString(" ")
	printBlock(&b, m.Body, 0)
	b.WriteString("\n")
	return b.String()
}

func signature(m *Method) string {
	parts := make([]string, len(m.Params))
	for i, p := range m.Params {
		parts[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	ret := m.ReturnType
	if ret == "" {
		ret = "void"
	}
	return fmt.Sprintf("%s %s(%s)", ret, m.Name, strings.Join(parts, ", "))
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("    ", depth))
}

func printBlock(b *strings.Builder, blk *Block, depth int) {
	if blk == nil {
		b.WriteString("{\n")
		indent(b, depth)
		b.WriteString("}")
		return
	}
	b.WriteString("{\n")
	for _, s := range blk.Stmts {
		printStmt(b, s, depth+1)
	}
	indent(b, depth)
	b.WriteString("}")
}

func printStmt(b *strings.Builder, s Stmt, depth int) {
	indent(b, depth)
	switch n := s.(type) {
	case *VarDecl:
		if n.Init != nil {
			fmt.Fprintf(b, "%s %s = %s;\n", n.Type, n.Name, n.Init.String())
		} else {
			fmt.Fprintf(b, "%s %s;\n", n.Type, n.Name)
		}
	case *Assign:
		fmt.Fprintf(b, "%s = %s;\n", n.LHS, n.RHS.String())
	case *CompoundAssign:
		fmt.Fprintf(b, "%s %s= %s;\n", n.LHS, n.Op, n.RHS.String())
	case *ExprStmt:
		fmt.Fprintf(b, "%s;\n", n.X.String())
	case *If:
		fmt.Fprintf(b, "if (%s) ", n.Cond.String())
		printBlock(b, n.Then, depth)
		if n.Else != nil {
			b.WriteString(" else ")
			printBlock(b, n.Else, depth)
		}
		b.WriteString("\n")
	case *While:
		fmt.Fprintf(b, "while (%s) ", n.Cond.String())
		printBlock(b, n.Body, depth)
		b.WriteString("\n")
	case *For:
		b.WriteString("for (")
		if n.Init != nil {
			b.WriteString(strings.TrimSuffix(strings.TrimSpace(inlineStmt(n.Init)), ";"))
		}
		b.WriteString("; ")
		b.WriteString(n.Cond.String())
		b.WriteString("; ")
		if n.Update != nil {
			b.WriteString(strings.TrimSuffix(strings.TrimSpace(inlineStmt(n.Update)), ";"))
		}
		b.WriteString(") ")
		printBlock(b, n.Body, depth)
		b.WriteString("\n")
	case *ForEach:
		fmt.Fprintf(b, "for (%s %s : %s) ", n.VarType, n.VarName, n.Iter.String())
		printBlock(b, n.Body, depth)
		b.WriteString("\n")
	case *DoWhile:
		b.WriteString("do ")
		printBlock(b, n.Body, depth)
		fmt.Fprintf(b, " while (%s);\n", n.Cond.String())
	case *Switch:
		fmt.Fprintf(b, "switch (%s) {\n", n.Selector.String())
		for _, c := range n.Cases {
			indent(b, depth+1)
			if c.IsDefault {
				b.WriteString("default:\n")
			} else {
				fmt.Fprintf(b, "case %s:\n", c.Literal)
			}
			for _, cs := range c.Body.Stmts {
				printStmt(b, cs, depth+2)
			}
		}
		indent(b, depth)
		b.WriteString("}\n")
	case *Return:
		if n.Result != nil {
			fmt.Fprintf(b, "return %s;\n", n.Result.String())
		} else {
			b.WriteString("return;\n")
		}
	case *Break:
		if n.Label != "" {
			fmt.Fprintf(b, "break %s;\n", n.Label)
		} else {
			b.WriteString("break;\n")
		}
	case *Continue:
		if n.Label != "" {
			fmt.Fprintf(b, "continue %s;\n", n.Label)
		} else {
			b.WriteString("continue;\n")
		}
	case *Labeled:
		fmt.Fprintf(b, "%s: ", n.Label)
		if blk, ok := n.Stmt.(*Block); ok {
			printBlock(b, blk, depth)
			b.WriteString("\n")
		} else {
			b.WriteString("\n")
			printStmt(b, n.Stmt, depth+1)
		}
	case *Block:
		printBlock(b, n, depth)
		b.WriteString("\n")
	default:
		fmt.Fprintf(b, "/* unknown stmt %T */\n", n)
	}
}

func inlineStmt(s Stmt) string {
	var b strings.Builder
	printStmt(&b, s, 0)
	return strings.TrimSpace(b.String())
}
