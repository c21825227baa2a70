// Package cdg builds the control-dependence graph of a method (spec
// §4.3): which statements execute only because some branch took a
// particular outcome. It is built directly on top of internal/dom's
// postdominator computation, walking the postdominator tree the way
// the classic Ferrante/Ottenstein/Warren construction does.
package cdg

import (
	"fmt"
	"strings"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/mkelesidou/kausal-go/internal/dom"
	pferrors "github.com/mkelesidou/kausal-go/internal/errors"
)

// forCondPrefix marks a for-loop's condition-test node, the way
// internal/cfgbuild labels it ("for-cond:" + the loop's condition
// text).
const forCondPrefix = "for-cond:"

// Edge is one control-dependence relationship: To is control-dependent
// on From taking the branch labeled Label.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph is the control-dependence graph of one method.
type Graph struct {
	MethodName string
	order      []string
	deps       map[string][]Edge // To -> edges whose To==this node
}

// DependsOn returns the (possibly empty) list of control-dependence
// edges terminating at node id, in deterministic order.
func (g *Graph) DependsOn(id string) []Edge {
	return g.deps[id]
}

// Nodes returns every node id known to the graph, in CFG order.
func (g *Graph) Nodes() []string { return g.order }

// Build extracts the sub-CFG reachable from cfg's Start node, computes
// its postdominator tree, and derives control dependence by walking
// from each branch node's successors up the postdominator tree to (but
// not including) the branch's own immediate postdominator. Nodes
// reached by no branch at all are made dependent on Start, the
// standard "everything not otherwise controlled is controlled by
// method entry" convention.
func Build(cfg *cfgbuild.ControlFlowGraph) (*Graph, error) {
	start, ok := cfg.FindByLabelPrefix("Method Start:")
	if !ok {
		return nil, pferrors.New(pferrors.KindGraphConstruction, "no Method Start node found for CDG construction")
	}

	reachable := reachableFrom(cfg, start.ID)

	pdInfo, err := dom.Postdominators(cfg)
	if err != nil {
		return nil, err
	}

	g := &Graph{MethodName: cfg.MethodName, deps: make(map[string][]Edge)}
	covered := make(map[string]bool)

	for _, id := range reachable {
		g.order = append(g.order, id)
	}

	for _, id := range reachable {
		succs := cfg.Successors(id)
		if len(succs) < 2 {
			continue
		}
		ipdomBranch := pdInfo.IDom[id]
		isForCond := false
		if n, ok := cfg.Node(id); ok {
			isForCond = strings.HasPrefix(n.Label, forCondPrefix)
		}
		for i, s := range succs {
			label := branchLabel(i, len(succs), cfg, s)

			// A for-cond node's loop-exit successor is typically its
			// own immediate postdominator — the walk below would skip
			// it entirely — but spec §4.3 still records that edge: the
			// exit statement is control-dependent on the loop running
			// out, not merely on falling through from entry.
			if isForCond && s == ipdomBranch {
				edge := Edge{From: id, To: s, Label: label}
				g.deps[s] = append(g.deps[s], edge)
				covered[s] = true
			}

			visited := make(map[string]bool)
			run := s
			for run != "" && run != ipdomBranch && !visited[run] {
				visited[run] = true
				edge := Edge{From: id, To: run, Label: label}
				g.deps[run] = append(g.deps[run], edge)
				covered[run] = true
				run = pdInfo.IDom[run]
			}
		}
	}

	for _, id := range reachable {
		if id == start.ID {
			continue
		}
		if !covered[id] {
			g.deps[id] = append(g.deps[id], Edge{From: start.ID, To: id, Label: "entry"})
		}
	}

	return g, nil
}

// branchLabel derives a human-readable tag for a branch outcome. With
// exactly two successors the convention is "true" for the first (the
// then/body arm) and "false" for the second (the else/exit arm);
// switch and other multi-way branches are labeled by position since
// the builder does not carry per-edge case literals on the CFG edge
// itself.
func branchLabel(index, total int, cfg *cfgbuild.ControlFlowGraph, succID string) string {
	if total == 2 {
		if index == 0 {
			return "true"
		}
		return "false"
	}
	if n, ok := cfg.Node(succID); ok {
		return n.Label
	}
	return fmt.Sprintf("branch-%d", index)
}

// reachableFrom does a deterministic (insertion-ordered) BFS over the
// forward CFG starting at start, per §4.3's "Start-reachable sub-CFG"
// scoping rule.
func reachableFrom(cfg *cfgbuild.ControlFlowGraph, start string) []string {
	seen := map[string]bool{start: true}
	order := []string{start}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, s := range cfg.Successors(id) {
			if !seen[s] {
				seen[s] = true
				order = append(order, s)
				queue = append(queue, s)
			}
		}
	}
	return order
}
