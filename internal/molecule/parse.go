// internal/molecule/parse.go
//
// Builds molecules from the compact text layout format.
//
// Layout rules:
//   - Atom characters sit on even text rows at even text columns
//     (line 2*row, column 2*col).
//   - Vertical bonds sit on odd text rows at even columns (line 2*row+1).
//   - Horizontal bonds sit on even text rows at odd columns (column 2*col+1).
//   - '1' '-' '|' → single, '2' '=' '‖' → double, '3' '≡' '⦀' → triple;
//     anything else (space included) means no bond.
//
// Before mapping, blank lines are dropped and the block is cut to its common
// left margin and maximal right extent. A bond line without vertical bonds is
// therefore written with a placeholder such as '.'. An atom symbol found on a
// bond position is an error.

package molecule

import (
	"fmt"
	"strings"
	"unicode"
)

// Catalog maps a single-character chemical symbol to its template atom.
// Parsed molecules receive copies, never the template itself.
type Catalog map[string]Atom

// BondOrder maps a layout bond character to a bond order (0 = no bond).
func BondOrder(r rune) int {
	switch r {
	case '1', '-', '|':
		return 1
	case '2', '=', '‖':
		return 2
	case '3', '≡', '⦀':
		return 3
	}
	return 0
}

// BondRune is the layout character drawn for a bond of the given order.
func BondRune(order int, vertical bool) rune {
	h := [4]rune{' ', '-', '=', '≡'}
	v := [4]rune{' ', '|', '‖', '⦀'}
	if order < 0 || order > 3 {
		return ' '
	}
	if vertical {
		return v[order]
	}
	return h[order]
}

// Parse creates a named molecule from layout lines.
func Parse(name string, cat Catalog, lines []string) (*Molecule, error) {
	m := &Molecule{Name: name}
	if err := m.Parse(cat, lines); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseText is Parse for a single newline-separated block.
func ParseText(name string, cat Catalog, text string) (*Molecule, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return Parse(name, cat, strings.Split(strings.TrimRight(text, "\n"), "\n"))
}

// Parse replaces the molecule's grid with the one described by lines. On any
// error the molecule keeps its previous dimensions and atoms.
func (m *Molecule) Parse(cat Catalog, lines []string) error {
	grid := normalizeLayout(lines)
	rows := (len(grid) + 1) / 2
	width := 0
	if len(grid) > 0 {
		width = len(grid[0])
	}
	cols := (width + 1) / 2

	for i, line := range grid {
		for j, r := range line {
			if i%2 == 0 && j%2 == 0 {
				continue
			}
			if _, ok := cat[string(r)]; ok {
				return fmt.Errorf("parse %q: %w: %q at line %d column %d", m.Name, ErrMisplacedAtom, r, i+1, j+1)
			}
		}
	}

	n := New(m.Name, cols, rows)

	for row := 0; row < rows; row++ {
		line := grid[2*row]
		for col := 0; col < cols; col++ {
			r := line[2*col]
			if tmpl, ok := cat[string(r)]; ok {
				a := tmpl
				n.cells[row][col] = &a
			} else if r != ' ' {
				return &SymbolError{Molecule: m.Name, Symbol: r, Pos: Position{col, row}}
			}
		}
	}

	for row := 0; row < rows-1; row++ {
		line := grid[2*row+1]
		for col := 0; col < cols; col++ {
			if nr := BondOrder(line[2*col]); nr > 0 {
				if _, err := n.ConnectAtoms(Position{col, row}, Position{col, row + 1}, nr, true); err != nil {
					return fmt.Errorf("parse %q: %w", m.Name, err)
				}
			}
		}
	}

	for row := 0; row < rows; row++ {
		line := grid[2*row]
		for col := 0; col < cols-1; col++ {
			if nr := BondOrder(line[2*col+1]); nr > 0 {
				if _, err := n.ConnectAtoms(Position{col, row}, Position{col + 1, row}, nr, true); err != nil {
					return fmt.Errorf("parse %q: %w", m.Name, err)
				}
			}
		}
	}

	m.cols, m.rows, m.cells = n.cols, n.rows, n.cells
	return nil
}

// normalizeLayout trims the layout block and pads it into a rectangle of runes.
func normalizeLayout(lines []string) [][]rune {
	var kept [][]rune
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		kept = append(kept, []rune(l))
	}
	if len(kept) == 0 {
		return nil
	}

	left := -1
	for _, l := range kept {
		indent := 0
		for indent < len(l) && unicode.IsSpace(l[indent]) {
			indent++
		}
		if left < 0 || indent < left {
			left = indent
		}
	}

	right := 0
	for i, l := range kept {
		l = l[left:]
		kept[i] = l
		end := len(l)
		for end > 0 && unicode.IsSpace(l[end-1]) {
			end--
		}
		if end > right {
			right = end
		}
	}

	grid := make([][]rune, len(kept))
	for i, l := range kept {
		row := make([]rune, right)
		for j := range row {
			if j < len(l) && !unicode.IsSpace(l[j]) {
				row[j] = l[j]
			} else {
				row[j] = ' '
			}
		}
		grid[i] = row
	}
	return grid
}
