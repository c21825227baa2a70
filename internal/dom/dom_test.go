package dom

import (
	"testing"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond builds: start -> a -> end, start -> b -> end.
func diamond() *cfgbuild.ControlFlowGraph {
	cfg := cfgbuild.New("diamond")
	start := cfg.AddNode("Method Start: diamond")
	a := cfg.AddNode("a")
	b := cfg.AddNode("b")
	end := cfg.AddNode("Method End: diamond")
	cfg.AddEdge(start, a)
	cfg.AddEdge(start, b)
	cfg.AddEdge(a, end)
	cfg.AddEdge(b, end)
	return cfg
}

func TestDominatorsDiamond(t *testing.T) {
	cfg := diamond()
	info, err := Dominators(cfg)
	require.NoError(t, err)

	start, _ := cfg.FindByLabelPrefix("Method Start:")
	end, _ := cfg.FindByLabelPrefix("Method End:")

	// start dominates every node, including itself.
	for _, n := range cfg.Nodes() {
		assert.True(t, info.Dominates(start.ID, n.ID))
	}
	// end is only dominated by itself and start, not by a or b alone.
	assert.Equal(t, start.ID, info.IDom[end.ID])
}

func TestPostdominatorsDiamond(t *testing.T) {
	cfg := diamond()
	info, err := Postdominators(cfg)
	require.NoError(t, err)

	start, _ := cfg.FindByLabelPrefix("Method Start:")
	end, _ := cfg.FindByLabelPrefix("Method End:")

	for _, n := range cfg.Nodes() {
		assert.True(t, info.Dominates(end.ID, n.ID))
	}
	assert.Equal(t, end.ID, info.IDom[start.ID])
}

func TestDominatorsMissingStartNode(t *testing.T) {
	cfg := cfgbuild.New("broken")
	cfg.AddNode("just a node")
	_, err := Dominators(cfg)
	assert.Error(t, err)
}

func TestPostdominatorsMissingEndNode(t *testing.T) {
	cfg := cfgbuild.New("broken")
	cfg.AddNode("Method Start: broken")
	_, err := Postdominators(cfg)
	assert.Error(t, err)
}

func TestChildren(t *testing.T) {
	cfg := diamond()
	info, err := Dominators(cfg)
	require.NoError(t, err)

	start, _ := cfg.FindByLabelPrefix("Method Start:")
	children := info.Children(start.ID)
	assert.Len(t, children, 3) // a, b, and end all immediately dominated by start
}

func TestLinearChainDominators(t *testing.T) {
	cfg := cfgbuild.New("chain")
	start := cfg.AddNode("Method Start: chain")
	mid := cfg.AddNode("mid")
	end := cfg.AddNode("Method End: chain")
	cfg.AddEdge(start, mid)
	cfg.AddEdge(mid, end)

	info, err := Dominators(cfg)
	require.NoError(t, err)
	assert.Equal(t, start.ID, info.IDom[mid.ID])
	assert.Equal(t, mid.ID, info.IDom[end.ID])
}
