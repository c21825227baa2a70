// Package dom computes dominators and postdominators over a
// cfgbuild.ControlFlowGraph (spec §4.2), the way
// graph/callgraph/cfg.ComputeDominators did in the teacher repo: plain
// iterative set intersection rather than the Lengauer-Tarjan tree
// algorithm, because the spec's contract is the textbook fixed point
// and the graphs involved (single-method CFGs) are small enough that
// the asymptotic difference never matters.
package dom

import (
	"sort"

	pferrors "github.com/mkelesidou/kausal-go/internal/errors"
)

// Info is the result of one dominator (or postdominator) computation:
// the full dominator sets plus the derived immediate-dominator map.
// IDom has no entry for the root.
type Info struct {
	Root  string
	Dom   map[string]map[string]bool
	IDom  map[string]string
	order []string
}

// Dominates reports whether a dominates b (reflexively: a always
// dominates itself).
func (i *Info) Dominates(a, b string) bool {
	set, ok := i.Dom[b]
	if !ok {
		return false
	}
	return set[a]
}

// Children returns the immediate dominator tree's children of n, in
// deterministic order.
func (i *Info) Children(n string) []string {
	var out []string
	for _, id := range i.order {
		if i.IDom[id] == n {
			out = append(out, id)
		}
	}
	return out
}

// graphView is the minimal directed-graph shape the fixed point needs;
// Dominators builds one whose preds are the CFG's predecessors and
// Postdominators one whose preds are the CFG's successors, so the same
// computation serves both dominators and postdominators (spec §4.2's "symmetric on the reverse graph"
// framing).
type graphView struct {
	nodeIDs []string
	preds   func(id string) []string
}

// compute runs the textbook fixed point:
//
//	Dom(entry) = {entry}
//	Dom(n)     = {n} ∪ ⋂ { Dom(p) : p predecessor of n }   (n != entry)
//
// iterated over nodes in a fixed deterministic order until no set
// changes, or maxIter rounds are exhausted (spec §5 convergence
// watchdog), in which case an AnalysisConvergenceError is returned.
func compute(g graphView, entry string, maxIter int) (*Info, error) {
	dom := make(map[string]map[string]bool, len(g.nodeIDs))
	all := make(map[string]bool, len(g.nodeIDs))
	for _, id := range g.nodeIDs {
		all[id] = true
	}
	for _, id := range g.nodeIDs {
		if id == entry {
			dom[id] = map[string]bool{entry: true}
		} else {
			// Seed with "all nodes" so the first intersection round
			// actually narrows the set rather than starting empty.
			cp := make(map[string]bool, len(all))
			for k := range all {
				cp[k] = true
			}
			dom[id] = cp
		}
	}

	changed := true
	iter := 0
	for changed {
		if iter >= maxIter {
			return nil, pferrors.New(pferrors.KindAnalysisConvergence,
				"dominator computation did not converge within the iteration cap")
		}
		iter++
		changed = false
		for _, id := range g.nodeIDs {
			if id == entry {
				continue
			}
			preds := g.preds(id)
			var newSet map[string]bool
			for _, p := range preds {
				if newSet == nil {
					newSet = make(map[string]bool, len(dom[p]))
					for k := range dom[p] {
						newSet[k] = true
					}
					continue
				}
				for k := range newSet {
					if !dom[p][k] {
						delete(newSet, k)
					}
				}
			}
			if newSet == nil {
				newSet = map[string]bool{}
			}
			newSet[id] = true

			if !sameSet(newSet, dom[id]) {
				dom[id] = newSet
				changed = true
			}
		}
	}

	info := &Info{Root: entry, Dom: dom, IDom: make(map[string]string), order: append([]string{}, g.nodeIDs...)}
	for _, id := range g.nodeIDs {
		if id == entry {
			continue
		}
		info.IDom[id] = immediateDominator(id, dom)
	}
	return info, nil
}

// immediateDominator picks, among n's strict dominators, the one
// dominated by every other strict dominator of n. Dominator sets along
// any path nest linearly, so this is equivalently "the strict
// dominator with the largest dominator set".
func immediateDominator(n string, dom map[string]map[string]bool) string {
	var best string
	bestSize := -1
	for d := range dom[n] {
		if d == n {
			continue
		}
		if size := len(dom[d]); size > bestSize {
			bestSize = size
			best = d
		}
	}
	return best
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// sortedIDs is used by callers that need a deterministic node list
// from a map-keyed source.
func sortedIDs(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
