package dom

import (
	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	pferrors "github.com/mkelesidou/kausal-go/internal/errors"
)

// DefaultMaxIter bounds the dominator fixed point at a fixed 500
// rounds, whatever the node count, before the watchdog gives up; single
// method CFGs converge in at most a handful of rounds, so this only
// ever fires on a malformed graph.
const DefaultMaxIter = 500

// Dominators computes the dominator sets and immediate-dominator tree
// of cfg rooted at its "Method Start:" node (spec §4.2).
func Dominators(cfg *cfgbuild.ControlFlowGraph) (*Info, error) {
	entry, ok := cfg.FindByLabelPrefix("Method Start:")
	if !ok {
		return nil, pferrors.New(pferrors.KindGraphConstruction, "no Method Start node found for dominator computation")
	}
	ids := nodeIDs(cfg)
	g := graphView{
		nodeIDs: ids,
		preds:   cfg.Predecessors,
	}
	return compute(g, entry.ID, DefaultMaxIter)
}

// Postdominators computes postdominators by running the same fixed
// point on the reversed graph rooted at the method's "Method End:"
// node (spec §4.2's "symmetric on the reverse graph" definition). It
// fails if the CFG has no End node, per the spec's stated failure
// condition for this stage.
func Postdominators(cfg *cfgbuild.ControlFlowGraph) (*Info, error) {
	end, ok := cfg.FindByLabelPrefix("Method End:")
	if !ok {
		return nil, pferrors.New(pferrors.KindGraphConstruction, "no Method End node found for postdominator computation")
	}
	ids := nodeIDs(cfg)
	g := graphView{
		nodeIDs: ids,
		preds:   cfg.Successors, // reversed: "predecessor" in the reverse graph is a successor in the forward one
	}
	return compute(g, end.ID, DefaultMaxIter)
}

func nodeIDs(cfg *cfgbuild.ControlFlowGraph) []string {
	nodes := cfg.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
