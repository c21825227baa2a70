package reach

import (
	"testing"

	"github.com/mkelesidou/kausal-go/internal/cfgbuild"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDef(t *testing.T) {
	tests := []struct {
		label   string
		want    string
		wantOK  bool
	}{
		{"int x = 1", "x", true},
		{"x = x + 1", "x", true},
		{"x += 1", "x", true},
		{"Method Start: foo", "", false},
		{"if (x == 1)", "", false},
		{"return x", "", false},
	}
	for _, tt := range tests {
		got, ok := extractDef(tt.label)
		assert.Equal(t, tt.wantOK, ok, tt.label)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, tt.label)
		}
	}
}

func TestComputeLinearRedefinition(t *testing.T) {
	cfg := cfgbuild.New("m")
	start := cfg.AddNode("Method Start: m")
	decl := cfg.AddNode("int x = 1")
	reassign := cfg.AddNode("x = x + 1")
	end := cfg.AddNode("Method End: m")
	cfg.AddEdge(start, decl)
	cfg.AddEdge(decl, reassign)
	cfg.AddEdge(reassign, end)

	result, err := Compute(cfg)
	require.NoError(t, err)

	assert.Empty(t, result.ReachingVars(start.ID))
	assert.Equal(t, []string{"x"}, result.ReachingVars(reassign.ID))
	assert.Equal(t, []string{"x"}, result.ReachingVars(end.ID))

	// the reassignment node's own reaching definition is the decl, not itself
	assert.True(t, result.In[reassign.ID][decl.ID])
	assert.True(t, result.Out[reassign.ID][reassign.ID])
	assert.False(t, result.Out[reassign.ID][decl.ID])
}

func TestComputeMergeUnionsBothBranches(t *testing.T) {
	// start -> (x=1) -> merge ; start -> (x=2) -> merge
	cfg := cfgbuild.New("m")
	start := cfg.AddNode("Method Start: m")
	left := cfg.AddNode("x = 1")
	right := cfg.AddNode("x = 2")
	merge := cfg.AddNode("Method End: m")
	cfg.AddEdge(start, left)
	cfg.AddEdge(start, right)
	cfg.AddEdge(left, merge)
	cfg.AddEdge(right, merge)

	result, err := Compute(cfg)
	require.NoError(t, err)

	assert.True(t, result.In[merge.ID][left.ID])
	assert.True(t, result.In[merge.ID][right.ID])
	assert.Equal(t, []string{"x"}, result.ReachingVars(merge.ID))
}
