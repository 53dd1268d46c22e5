package molecule

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// BondGraph returns the molecule as a weighted undirected graph. Node IDs are
// row*cols+col, edge weights are bond orders. Dangling bonds toward empty
// cells are not edges.
func (m *Molecule) BondGraph() *simple.WeightedUndirectedGraph {
	g, _ := m.bondGraph()
	return g
}

func (m *Molecule) bondGraph() (*simple.WeightedUndirectedGraph, int) {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	m.each(func(p Position, _ *Atom) { g.AddNode(simple.Node(m.nodeID(p))) })
	edges := 0
	m.each(func(p Position, a *Atom) {
		for _, d := range [2]Direction{Right, Down} {
			q := p.Step(d)
			if a.Bound[d] == 0 || m.Atom(q) == nil {
				continue
			}
			g.SetWeightedEdge(simple.WeightedEdge{
				F: simple.Node(m.nodeID(p)),
				T: simple.Node(m.nodeID(q)),
				W: float64(a.Bound[d]),
			})
			edges++
		}
	})
	return g, edges
}

func (m *Molecule) nodeID(p Position) int64 { return int64(p.Row*m.cols + p.Col) }

func (m *Molecule) nodePos(id int64) Position {
	return Position{Col: int(id) % m.cols, Row: int(id) / m.cols}
}

// Fragments splits the atoms into bond-connected groups. Positions inside a
// group and the groups themselves are ordered row-major.
func (m *Molecule) Fragments() [][]Position {
	g, _ := m.bondGraph()
	var out [][]Position
	for _, cc := range topo.ConnectedComponents(g) {
		group := make([]Position, 0, len(cc))
		for _, n := range cc {
			group = append(group, m.nodePos(n.ID()))
		}
		sort.Slice(group, func(i, j int) bool { return rowMajorLess(group[i], group[j]) })
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return rowMajorLess(out[i][0], out[j][0]) })
	return out
}

// IsTree reports whether the atoms form a single connected, cycle-free graph.
func (m *Molecule) IsTree() bool {
	g, edges := m.bondGraph()
	nodes := g.Nodes().Len()
	if nodes == 0 {
		return false
	}
	return len(topo.ConnectedComponents(g)) == 1 && edges == nodes-1
}

func rowMajorLess(a, b Position) bool {
	if a.Row != b.Row {
		return a.Row < b.Row
	}
	return a.Col < b.Col
}
