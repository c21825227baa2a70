package cfgbuild

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

// dotNode wraps a *CFGNode so it can carry a DOTID and a label
// attribute for gonum's dot encoder.
type dotNode struct {
	n *CFGNode
}

func (d dotNode) ID() int64 { return d.n.gid }

func (d dotNode) DOTID() string { return fmt.Sprintf("%q", d.n.ID) }

func (d dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "label", Value: fmt.Sprintf("%q", escapeLabel(d.n.Label))}}
}

// escapeLabel escapes characters the spec's diagnostic export contract
// (§6, §9) calls out: quotes and parentheses.
func escapeLabel(s string) string {
	r := strings.NewReplacer(
		`"`, `\"`,
		`(`, `\(`,
		`)`, `\)`,
	)
	return r.Replace(s)
}

// ExportDOT renders the CFG as a labeled directed-graph text file
// suitable for diagnostic visualization (spec §6), built on
// gonum.org/v1/gonum/graph/encoding/dot — the same encoder the
// corpus's graphism-exp CFA package uses for its control-flow graphs.
func (c *ControlFlowGraph) ExportDOT() (string, error) {
	g := simple.NewDirectedGraph()
	nodes := make(map[string]dotNode, len(c.order))
	for _, n := range c.order {
		dn := dotNode{n}
		nodes[n.ID] = dn
		g.AddNode(dn)
	}
	for _, n := range c.order {
		for _, to := range c.succ[n.ID] {
			g.SetEdge(simple.Edge{F: nodes[n.ID], T: nodes[to]})
		}
	}

	var gg graph.Directed = g
	out, err := dot.Marshal(gg, sanitizeName(c.MethodName), "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func sanitizeName(name string) string {
	r := strings.NewReplacer(" ", "_", "(", "_", ")", "_", ",", "_")
	return "cfg_" + r.Replace(name)
}
