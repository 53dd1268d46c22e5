// internal/molecule/transform.go
//
// Rotation and mirroring. The grid reshape and the per-atom bond arrays are
// turned the same way in the same pass, so bond directions always stay
// geometrically correct.

package molecule

import "fmt"

// Orientation selects the mirror axis for Flip.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Rotate turns the molecule clockwise by n quarter turns. n is taken modulo
// 4, so negative values turn counter-clockwise.
func (m *Molecule) Rotate(n int) {
	for i := 0; i < (n%4+4)%4; i++ {
		m.rotateOnce()
	}
}

func (m *Molecule) rotateOnce() {
	w, h := m.cols, m.rows
	cells := makeCells(h, w)
	m.each(func(p Position, a *Atom) {
		a.rotate()
		cells[p.Col][h-1-p.Row] = a
	})
	m.cols, m.rows, m.cells = h, w, cells
}

// HFlip mirrors the molecule left to right.
func (m *Molecule) HFlip() {
	for _, line := range m.cells {
		for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
			line[i], line[j] = line[j], line[i]
		}
	}
	m.each(func(_ Position, a *Atom) { a.mirror(Right, Left) })
}

// VFlip mirrors the molecule top to bottom.
func (m *Molecule) VFlip() {
	for i, j := 0, len(m.cells)-1; i < j; i, j = i+1, j-1 {
		m.cells[i], m.cells[j] = m.cells[j], m.cells[i]
	}
	m.each(func(_ Position, a *Atom) { a.mirror(Up, Down) })
}

// Flip mirrors the molecule along the given orientation.
func (m *Molecule) Flip(o Orientation) error {
	switch o {
	case Horizontal:
		m.HFlip()
	case Vertical:
		m.VFlip()
	default:
		return fmt.Errorf("%q: %w", o, ErrInvalidOrientation)
	}
	return nil
}
