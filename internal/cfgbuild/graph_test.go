package cfgbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeAssignsSequentialIDs(t *testing.T) {
	cfg := New("m")
	a := cfg.AddNode("a")
	b := cfg.AddNode("b")
	assert.Equal(t, "n0", a.ID)
	assert.Equal(t, "n1", b.ID)
	assert.Equal(t, []*CFGNode{a, b}, cfg.Nodes())
}

func TestAddEdgeDeduplicates(t *testing.T) {
	cfg := New("m")
	a := cfg.AddNode("a")
	b := cfg.AddNode("b")
	cfg.AddEdge(a, b)
	cfg.AddEdge(a, b)
	assert.Equal(t, []string{b.ID}, cfg.Successors(a.ID))
	assert.Equal(t, []string{a.ID}, cfg.Predecessors(b.ID))
}

func TestAddEdgeNilIsNoOp(t *testing.T) {
	cfg := New("m")
	a := cfg.AddNode("a")
	cfg.AddEdge(a, nil)
	cfg.AddEdge(nil, a)
	assert.Empty(t, cfg.Successors(a.ID))
}

func TestNodeLookup(t *testing.T) {
	cfg := New("m")
	a := cfg.AddNode("a")
	got, ok := cfg.Node(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = cfg.Node("nope")
	assert.False(t, ok)
}

func TestEdgesInInsertionOrder(t *testing.T) {
	cfg := New("m")
	a := cfg.AddNode("a")
	b := cfg.AddNode("b")
	c := cfg.AddNode("c")
	cfg.AddEdge(a, b)
	cfg.AddEdge(a, c)
	cfg.AddEdge(b, c)
	assert.Equal(t, [][2]string{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, c.ID}}, cfg.Edges())
}

func TestFindByLabelPrefix(t *testing.T) {
	cfg := New("m")
	cfg.AddNode("something")
	end := cfg.AddNode("Method End: m")
	got, ok := cfg.FindByLabelPrefix("Method End:")
	require.True(t, ok)
	assert.Equal(t, end, got)

	_, ok = cfg.FindByLabelPrefix("nope")
	assert.False(t, ok)
}
