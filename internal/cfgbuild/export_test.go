package cfgbuild

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDOTContainsNodesAndEdges(t *testing.T) {
	cfg := New("my method(x)")
	a := cfg.AddNode(`say "hi" (loud)`)
	b := cfg.AddNode("b")
	cfg.AddEdge(a, b)

	out, err := cfg.ExportDOT()
	require.NoError(t, err)
	assert.Contains(t, out, "cfg_my_method_x_")
	assert.Contains(t, out, a.ID)
	assert.Contains(t, out, b.ID)
	assert.Contains(t, out, "hi")
	assert.Contains(t, out, "loud")
}

func TestSanitizeNameReplacesPunctuation(t *testing.T) {
	assert.Equal(t, "cfg_add_x__y_", sanitizeName("add(x, y)"))
}

func TestEscapeLabelEscapesQuotesAndParens(t *testing.T) {
	assert.Equal(t, `say \"hi\" \(now\)`, escapeLabel(`say "hi" (now)`))
}
