// internal/molecule/molecule.go
//
// Molecule grid container.
// A Molecule is a cols×rows array of optional atoms. It owns every atom it
// holds: cells never alias each other or another molecule, and every copy in
// or out of the grid is deep.
//
// Notes:
//   - cells is row-major (cells[row][col]); row 0 is the first parsed line.
//   - Callers that want to try a mutation and maybe discard it copy first.

package molecule

import (
	"fmt"
	"strings"
)

// Molecule is a 2D grid of atoms joined by directional bonds.
type Molecule struct {
	Name  string
	cols  int
	rows  int
	cells [][]*Atom
}

// New creates an empty molecule of the given dimensions.
func New(name string, cols, rows int) *Molecule {
	m := &Molecule{Name: name}
	m.resize(cols, rows)
	return m
}

func (m *Molecule) resize(cols, rows int) {
	m.cols, m.rows = cols, rows
	m.cells = makeCells(cols, rows)
}

func makeCells(cols, rows int) [][]*Atom {
	cells := make([][]*Atom, rows)
	for y := range cells {
		cells[y] = make([]*Atom, cols)
	}
	return cells
}

// Dim returns (cols, rows).
func (m *Molecule) Dim() (cols, rows int) { return m.cols, m.rows }

// IsEmpty reports a 0×0 molecule (no grid at all).
func (m *Molecule) IsEmpty() bool { return m.cols == 0 && m.rows == 0 }

// InBounds reports whether p addresses a cell of the grid.
func (m *Molecule) InBounds(p Position) bool {
	return p.Col >= 0 && p.Col < m.cols && p.Row >= 0 && p.Row < m.rows
}

// Atom returns the atom at p, or nil for an empty or out-of-bounds cell.
// The returned atom is owned by the molecule.
func (m *Molecule) Atom(p Position) *Atom {
	if !m.InBounds(p) {
		return nil
	}
	return m.cells[p.Row][p.Col]
}

// SetAtom stores a (nil = clear) at p. It does not connect or disconnect
// anything: callers replacing a bonded atom must disconnect first.
func (m *Molecule) SetAtom(p Position, a *Atom) {
	if !m.InBounds(p) {
		return
	}
	m.cells[p.Row][p.Col] = a
}

// Positions lists all occupied cells in row-major order.
func (m *Molecule) Positions() []Position {
	var out []Position
	m.each(func(p Position, _ *Atom) { out = append(out, p) })
	return out
}

// each visits occupied cells in row-major order.
func (m *Molecule) each(fn func(p Position, a *Atom)) {
	for y, line := range m.cells {
		for x, a := range line {
			if a != nil {
				fn(Position{x, y}, a)
			}
		}
	}
}

// Copy returns a deep copy of the molecule.
func (m *Molecule) Copy() *Molecule {
	c := New(m.Name, m.cols, m.rows)
	m.each(func(p Position, a *Atom) { c.cells[p.Row][p.Col] = a.Copy() })
	return c
}

// HasFreeBonds reports whether any atom has free slots left. Empty
// molecules have none.
func (m *Molecule) HasFreeBonds() bool {
	for _, line := range m.cells {
		for _, a := range line {
			if a != nil && a.TotalFree() > 0 {
				return true
			}
		}
	}
	return false
}

// DelocalizeFreeBonds applies Atom.DelocalizeFree to every atom.
func (m *Molecule) DelocalizeFreeBonds() {
	m.each(func(_ Position, a *Atom) { a.DelocalizeFree() })
}

// CountAtoms counts atoms with the given symbol, or all atoms for "".
func (m *Molecule) CountAtoms(symbol string) int {
	n := 0
	m.each(func(_ Position, a *Atom) {
		if symbol == "" || a.Symbol == symbol {
			n++
		}
	})
	return n
}

// CountBonds counts bonds of the given order (1..3). Order 0 sums the bond
// strength of all bonds instead, so a double bond counts twice.
func (m *Molecule) CountBonds(order int) int {
	n := 0
	m.each(func(_ Position, a *Atom) {
		if order == 0 {
			n += a.Bound.Sum()
		} else {
			n += a.Bound.Count(order)
		}
	})
	return n / 2
}

// Validate audits bond symmetry for every pair of adjacent occupied cells.
func (m *Molecule) Validate() error {
	var err error
	m.each(func(p Position, a *Atom) {
		if err != nil {
			return
		}
		for _, d := range [2]Direction{Right, Down} {
			q := p.Step(d)
			b := m.Atom(q)
			if b == nil {
				continue
			}
			if a.Bound[d] != b.Bound[d.Opposite()] {
				err = fmt.Errorf("%q between %s and %s: %w", m.Name, p, q, ErrCorruptBondData)
				return
			}
		}
	})
	return err
}

// String renders the atom symbols only, one line per row.
func (m *Molecule) String() string {
	lines := make([]string, m.rows)
	for y, line := range m.cells {
		var sb strings.Builder
		for _, a := range line {
			if a != nil {
				sb.WriteString(a.Symbol)
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Layout renders the molecule in the text layout format understood by Parse,
// bonds included. Trailing spaces are trimmed from every line; a bond line
// without vertical bonds is written as noBondLine so it survives parsing.
func (m *Molecule) Layout() []string {
	if m.rows == 0 || m.cols == 0 {
		return nil
	}
	width := 2*m.cols - 1
	out := make([]string, 0, 2*m.rows-1)
	for y := 0; y < m.rows; y++ {
		atoms := []rune(strings.Repeat(" ", width))
		bonds := []rune(strings.Repeat(" ", width))
		for x := 0; x < m.cols; x++ {
			a := m.cells[y][x]
			if a == nil {
				continue
			}
			atoms[2*x] = symbolRune(a)
			if x+1 < m.cols && m.cells[y][x+1] != nil && a.Bound[Right] > 0 {
				atoms[2*x+1] = BondRune(a.Bound[Right], false)
			}
			if y+1 < m.rows && m.cells[y+1][x] != nil && a.Bound[Down] > 0 {
				bonds[2*x] = BondRune(a.Bound[Down], true)
			}
		}
		out = append(out, strings.TrimRight(string(atoms), " "))
		if y+1 < m.rows {
			line := strings.TrimRight(string(bonds), " ")
			if line == "" {
				line = noBondLine
			}
			out = append(out, line)
		}
	}
	return out
}

// noBondLine stands for a bond line with no vertical bonds.
const noBondLine = "."

func symbolRune(a *Atom) rune {
	for _, r := range a.Symbol {
		return r
	}
	return '?'
}
