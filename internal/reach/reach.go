// Package reach implements reaching-definitions analysis over a
// method's CFG (spec §4.4): for every program point, which assignment
// sites could be the most recent write to each variable. The `reach`
// CLI subcommand prints, per CFG node, the variables reaching it.
package reach

import (
	"regexp"
	"sort"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	pferrors "github.com/mkelesidou/kausal-go/internal/errors"
)

// DefaultMaxIter bounds the worklist fixed point (spec §5 watchdog).
const DefaultMaxIter = 1000

// Result holds the per-node IN and OUT sets, each a set of node ids
// that are reaching-definition sites at that program point.
type Result struct {
	In  map[string]map[string]bool
	Out map[string]map[string]bool

	// DefSite maps a node id to the variable it defines, for nodes
	// that define one.
	DefSite map[string]string
}

// defTarget extracts the assignment target of a CFG node label, the
// way the front end renders "T x = e", "x = e", and "x += e" nodes.
// Declarations with no initializer and non-assignment nodes return ok=false.
var defTarget = regexp.MustCompile(`^(?:[A-Za-z_]\w*(?:\[\])?\s+)?([A-Za-z_]\w*)\s*(\+=|-=|\*=|/=|=)(?:[^=]|$)`)

func extractDef(label string) (string, bool) {
	m := defTarget.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Compute runs the standard worklist fixed point:
//
//	IN(n)  = ∪ OUT(p) over predecessors p of n
//	OUT(n) = gen(n) ∪ (IN(n) \ kill(n))
//
// gen(n) = {n} when n defines a variable, kill(n) = every other
// definition site of that same variable.
func Compute(cfg *cfgbuild.ControlFlowGraph) (*Result, error) {
	nodes := cfg.Nodes()

	defSite := make(map[string]string, len(nodes))
	defsOf := make(map[string][]string)
	for _, n := range nodes {
		if v, ok := extractDef(n.Label); ok {
			defSite[n.ID] = v
			defsOf[v] = append(defsOf[v], n.ID)
		}
	}

	kill := make(map[string]map[string]bool, len(nodes))
	for _, n := range nodes {
		v, ok := defSite[n.ID]
		if !ok {
			continue
		}
		k := make(map[string]bool)
		for _, id := range defsOf[v] {
			if id != n.ID {
				k[id] = true
			}
		}
		kill[n.ID] = k
	}

	in := make(map[string]map[string]bool, len(nodes))
	out := make(map[string]map[string]bool, len(nodes))
	for _, n := range nodes {
		in[n.ID] = map[string]bool{}
		out[n.ID] = map[string]bool{}
	}

	changed := true
	iter := 0
	for changed {
		if iter >= DefaultMaxIter {
			return nil, pferrors.New(pferrors.KindAnalysisConvergence,
				"reaching-definitions analysis did not converge within the iteration cap")
		}
		iter++
		changed = false
		for _, n := range nodes {
			newIn := map[string]bool{}
			for _, p := range cfg.Predecessors(n.ID) {
				for k := range out[p] {
					newIn[k] = true
				}
			}
			if !sameSet(newIn, in[n.ID]) {
				in[n.ID] = newIn
				changed = true
			}

			newOut := map[string]bool{}
			for k := range in[n.ID] {
				if !kill[n.ID][k] {
					newOut[k] = true
				}
			}
			if _, ok := defSite[n.ID]; ok {
				newOut[n.ID] = true
			}
			if !sameSet(newOut, out[n.ID]) {
				out[n.ID] = newOut
				changed = true
			}
		}
	}

	return &Result{In: in, Out: out, DefSite: defSite}, nil
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

// ReachingVars returns, in deterministic order, the distinct variable
// names with at least one definition reaching node id.
func (r *Result) ReachingVars(id string) []string {
	seen := make(map[string]bool)
	var out []string
	for site := range r.In[id] {
		v := r.DefSite[site]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
