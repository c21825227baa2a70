// Package parentmap extracts, from instrumented GSA source, a
// variable dependency graph: for each assignment target, the set of
// identifiers its right-hand side reads (spec §4.8). The aggregation
// stage (cmd/aggregate.go, via Lookup) later restricts a treatment
// variable's covariates to its recorded parents.
package parentmap

import (
	"encoding/json"

	"github.com/mkelesidou/kausal-go/internal/ast"
)

// Entry is one lhs -> parents relationship, keeping the earliest
// occurrence (by source position) when the same name is assigned more
// than once — GSA output never reassigns a versioned name, but the
// map is built to tolerate pre-GSA source too.
type Entry struct {
	Name    string   `json:"name"`
	Parents []string `json:"parents"`
	Pos     ast.Pos  `json:"pos"`
}

// Map is an insertion-ordered lhs -> Entry table, serializable to the
// JSON artifact the spec's later stages (and diagnostic tooling) read.
type Map struct {
	order   []string
	entries map[string]*Entry
}

// New returns an empty Map.
func New() *Map {
	return &Map{entries: map[string]*Entry{}}
}

// Entries returns every entry in first-occurrence order.
func (m *Map) Entries() []*Entry {
	out := make([]*Entry, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.entries[name])
	}
	return out
}

// Lookup returns the parents of name, if recorded.
func (m *Map) Lookup(name string) ([]string, bool) {
	e, ok := m.entries[name]
	if !ok {
		return nil, false
	}
	return e.Parents, true
}

func (m *Map) record(name string, parents []string, pos ast.Pos) {
	if len(parents) > 1 {
		seen := make(map[string]bool, len(parents))
		uniq := make([]string, 0, len(parents))
		for _, p := range parents {
			if !seen[p] {
				seen[p] = true
				uniq = append(uniq, p)
			}
		}
		parents = uniq
	}
	if existing, ok := m.entries[name]; ok {
		if pos.Less(existing.Pos) {
			existing.Pos = pos
			existing.Parents = parents
		}
		return
	}
	m.entries[name] = &Entry{Name: name, Parents: parents, Pos: pos}
	m.order = append(m.order, name)
}

// Extract walks m's body and builds its parent map.
func Extract(method *ast.Method) *Map {
	pm := New()
	walkBlock(method.Body, pm)
	return pm
}

func walkBlock(b *ast.Block, pm *Map) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmt(s, pm)
	}
}

func walkStmt(s ast.Stmt, pm *Map) {
	switch n := s.(type) {
	case *ast.Block:
		walkBlock(n, pm)
	case *ast.VarDecl:
		if n.Init != nil {
			pm.record(n.Name, n.Init.Idents(), n.Pos)
		} else {
			pm.record(n.Name, nil, n.Pos)
		}
	case *ast.Assign:
		pm.record(n.LHS, n.RHS.Idents(), n.Pos)
	case *ast.CompoundAssign:
		parents := append([]string{n.LHS}, n.RHS.Idents()...)
		pm.record(n.LHS, parents, n.Pos)
	case *ast.ExprStmt:
		// Not an assignment; contributes no parent-map entry.
	case *ast.If:
		walkBlock(n.Then, pm)
		walkBlock(n.Else, pm)
	case *ast.While:
		walkBlock(n.Body, pm)
	case *ast.DoWhile:
		walkBlock(n.Body, pm)
	case *ast.For:
		if n.Init != nil {
			walkStmt(n.Init, pm)
		}
		walkBlock(n.Body, pm)
		if n.Update != nil {
			walkStmt(n.Update, pm)
		}
	case *ast.ForEach:
		pm.record(n.VarName, n.Iter.Idents(), ast.Pos{})
		walkBlock(n.Body, pm)
	case *ast.Switch:
		for _, c := range n.Cases {
			walkBlock(c.Body, pm)
		}
	case *ast.Labeled:
		walkStmt(n.Stmt, pm)
	}
}

// MarshalJSON renders the map as an ordered JSON array of entries, so
// round-tripping through JSON preserves first-occurrence order.
func (m *Map) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Entries())
}

// UnmarshalJSON rebuilds a Map from the array MarshalJSON produces.
func (m *Map) UnmarshalJSON(data []byte) error {
	var entries []*Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	m.entries = map[string]*Entry{}
	m.order = nil
	for _, e := range entries {
		m.entries[e.Name] = e
		m.order = append(m.order, e.Name)
	}
	return nil
}
