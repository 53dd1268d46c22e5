package molecule

// CollidesWith reports whether any cell is occupied in both molecules when
// other is placed at offset rel from m's origin. Only the overlap of the two
// grids is inspected.
func (m *Molecule) CollidesWith(other *Molecule, rel Position) bool {
	x0, x1 := max(0, rel.Col), min(m.cols, rel.Col+other.cols)
	y0, y1 := max(0, rel.Row), min(m.rows, rel.Row+other.rows)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if m.cells[y][x] != nil && other.cells[y-rel.Row][x-rel.Col] != nil {
				return true
			}
		}
	}
	return false
}

// Touches reports whether the two footprints are edge-adjacent without
// overlapping: no collision at rel, but a collision after a one-cell shift in
// any direction.
func (m *Molecule) Touches(other *Molecule, rel Position) bool {
	if m.CollidesWith(other, rel) {
		return false
	}
	for _, d := range Directions {
		if m.CollidesWith(other, rel.Add(d.Offset())) {
			return true
		}
	}
	return false
}
