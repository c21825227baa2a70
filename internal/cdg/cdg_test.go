package cdg

import (
	"testing"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ifThenNoElse builds: start -> then -> end, start -> end (the
// two-way branch of an if with no else).
func ifThenNoElse() (*cfgbuild.ControlFlowGraph, *cfgbuild.CFGNode, *cfgbuild.CFGNode, *cfgbuild.CFGNode) {
	cfg := cfgbuild.New("m")
	start := cfg.AddNode("Method Start: m")
	then := cfg.AddNode("then-body")
	end := cfg.AddNode("Method End: m")
	cfg.AddEdge(start, then)
	cfg.AddEdge(start, end)
	cfg.AddEdge(then, end)
	return cfg, start, then, end
}

func TestBuildIfThenNoElse(t *testing.T) {
	cfg, start, then, end := ifThenNoElse()
	g, err := Build(cfg)
	require.NoError(t, err)

	thenDeps := g.DependsOn(then.ID)
	require.Len(t, thenDeps, 1)
	assert.Equal(t, start.ID, thenDeps[0].From)
	assert.Equal(t, "true", thenDeps[0].Label)

	endDeps := g.DependsOn(end.ID)
	require.Len(t, endDeps, 1)
	assert.Equal(t, start.ID, endDeps[0].From)
	assert.Equal(t, "entry", endDeps[0].Label)

	startDeps := g.DependsOn(start.ID)
	assert.Empty(t, startDeps)
}

func TestBuildNodesInCFGOrder(t *testing.T) {
	cfg, start, then, end := ifThenNoElse()
	g, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{start.ID, then.ID, end.ID}, g.Nodes())
}

func TestBuildLinearCFGCoversEveryNodeUnderStart(t *testing.T) {
	// With no branch nodes, every non-start node falls through the
	// "uncontrolled" cover step and becomes dependent on Start.
	cfg := cfgbuild.New("linear")
	start := cfg.AddNode("Method Start: linear")
	mid := cfg.AddNode("mid")
	end := cfg.AddNode("Method End: linear")
	cfg.AddEdge(start, mid)
	cfg.AddEdge(mid, end)

	g, err := Build(cfg)
	require.NoError(t, err)

	midDeps := g.DependsOn(mid.ID)
	require.Len(t, midDeps, 1)
	assert.Equal(t, "entry", midDeps[0].Label)
	assert.Equal(t, start.ID, midDeps[0].From)

	endDeps := g.DependsOn(end.ID)
	require.Len(t, endDeps, 1)
	assert.Equal(t, "entry", endDeps[0].Label)
}

// forLoop builds: start -> cond, cond -> body (true), cond -> end
// (false, the loop's own exit and — since body falls straight back to
// cond with no other path to end — also cond's immediate
// postdominator), body -> cond (back edge).
func forLoop() (cfg *cfgbuild.ControlFlowGraph, start, cond, body, end *cfgbuild.CFGNode) {
	cfg = cfgbuild.New("m")
	s := cfg.AddNode("Method Start: m")
	c := cfg.AddNode("for-cond:i<10")
	b := cfg.AddNode("body")
	e := cfg.AddNode("Method End: m")
	cfg.AddEdge(s, c)
	cfg.AddEdge(c, b)
	cfg.AddEdge(c, e)
	cfg.AddEdge(b, c)
	return cfg, s, c, b, e
}

// TestBuildForCondRecordsEdgeToOwnIpdom covers spec §4.3's documented
// special case: a for-cond node's loop-exit successor is normally also
// its own immediate postdominator, which the general ipdom-stopping
// walk would skip entirely — but the edge must still be recorded, or a
// for-loop's exit statement never ends up control-dependent on the
// loop condition at all.
func TestBuildForCondRecordsEdgeToOwnIpdom(t *testing.T) {
	cfg, _, cond, _, end := forLoop()

	g, err := Build(cfg)
	require.NoError(t, err)

	endDeps := g.DependsOn(end.ID)
	require.NotEmpty(t, endDeps)
	found := false
	for _, dep := range endDeps {
		if dep.From == cond.ID && dep.Label == "false" {
			found = true
		}
	}
	assert.True(t, found, "expected Method End to be control-dependent on the for-cond branch, got %+v", endDeps)
}

func TestBuildMissingStartNode(t *testing.T) {
	cfg := cfgbuild.New("broken")
	cfg.AddNode("orphan")
	_, err := Build(cfg)
	assert.Error(t, err)
}
