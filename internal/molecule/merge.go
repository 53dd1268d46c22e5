// internal/molecule/merge.go
//
// Merging two molecules.
//   - Add overlays another grid at a relative offset, growing the bounding box.
//   - Connect merges a touching molecule and auto-bonds every newly adjacent
//     pair at the strongest order the free capacity allows. It works on a
//     scratch copy and only commits when at least one bond formed.

package molecule

// Add overlays other at offset rel, resizing m to the union bounding box.
// Cells already occupied by m keep their atom unless overwrite is set. Atoms
// are copied, never shared with other.
func (m *Molecule) Add(other *Molecule, rel Position, overwrite bool) {
	nx, ny := min(0, rel.Col), min(0, rel.Row)
	nw := max(m.cols, rel.Col+other.cols) - nx
	nh := max(m.rows, rel.Row+other.rows) - ny

	cells := makeCells(nw, nh)
	m.each(func(p Position, a *Atom) {
		cells[p.Row-ny][p.Col-nx] = a.Copy()
	})
	other.each(func(p Position, a *Atom) {
		y, x := p.Row+rel.Row-ny, p.Col+rel.Col-nx
		if cells[y][x] == nil || overwrite {
			cells[y][x] = a.Copy()
		}
	})

	m.cols, m.rows, m.cells = nw, nh, cells
}

// Connect fuses other (placed at rel) into m if the two touch and at least
// one new bond can be formed. Otherwise m is left unchanged and false is
// returned. After a merge the grid origin moves to min(0, rel) in both axes.
func (m *Molecule) Connect(other *Molecule, rel Position) (bool, error) {
	if !m.Touches(other, rel) {
		return false, nil
	}

	scratch := m.Copy()
	scratch.Add(other, rel, false)

	connected := false
	for y := 0; y < scratch.rows; y++ {
		for x := 0; x < scratch.cols; x++ {
			if scratch.cells[y][x] == nil {
				continue
			}
			p := Position{x, y}
			// Right and Down visit every adjacent pair exactly once.
			for _, d := range [2]Direction{Right, Down} {
				q := p.Step(d)
				if scratch.Atom(q) == nil {
					continue
				}
				bonded, err := scratch.IsConnected(p, q)
				if err != nil {
					return false, err
				}
				if bonded {
					continue
				}
				ok, err := scratch.ConnectAtoms(p, q, 3, false)
				if err != nil {
					return false, err
				}
				connected = connected || ok
			}
		}
	}

	if connected {
		m.cols, m.rows, m.cells = scratch.cols, scratch.rows, scratch.cells
	}
	return connected, nil
}
