// internal/reactor/reactor.go
//
// The reactor is the playfield: a fixed cols×rows well holding placed
// molecule pieces.
//
// Coordinates:
//   - Piece.Col/Row is the reactor cell of the molecule's (0,0) cell.
//   - Row 0 is the floor; a molecule row r sits at reactor row Row+r.
//   - Falling means Row-1.
//
// The reactor only answers geometric questions and keeps the piece list.
// Merging, completion and spawning belong to the game session.

package reactor

import (
	"sort"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"

	"github.com/robalobadob/chon/internal/molecule"
)

const (
	DefaultCols = 8
	DefaultRows = 16
)

// Piece is a molecule placed at a reactor position.
type Piece struct {
	ID       string
	Name     string
	Col      int
	Row      int
	Molecule *molecule.Molecule
}

// NewPiece wraps m in a piece with a fresh ID.
func NewPiece(m *molecule.Molecule, col, row int) *Piece {
	return &Piece{ID: uuid.NewString(), Name: m.Name, Col: col, Row: row, Molecule: m}
}

// Reactor holds the placed pieces.
type Reactor struct {
	Cols   int
	Rows   int
	pieces []*Piece
}

// New creates an empty reactor. Non-positive dimensions fall back to the
// defaults.
func New(cols, rows int) *Reactor {
	if cols <= 0 {
		cols = DefaultCols
	}
	if rows <= 0 {
		rows = DefaultRows
	}
	return &Reactor{Cols: cols, Rows: rows}
}

// Fits reports whether m placed at (col,row) lies inside the reactor.
// Collisions are not checked.
func (r *Reactor) Fits(m *molecule.Molecule, col, row int) bool {
	w, h := m.Dim()
	return col >= 0 && row >= 0 && col+w <= r.Cols && row+h <= r.Rows
}

// TestCollision reports whether m at (col,row) overlaps an atom of any
// placed piece other than those in skip.
func (r *Reactor) TestCollision(m *molecule.Molecule, col, row int, skip ...*Piece) bool {
	return len(r.colliders(m, col, row, skip, true)) > 0
}

// ListColliders returns every placed piece (other than those in skip) that
// overlaps m at (col,row).
func (r *Reactor) ListColliders(m *molecule.Molecule, col, row int, skip ...*Piece) []*Piece {
	return r.colliders(m, col, row, skip, false)
}

func (r *Reactor) colliders(m *molecule.Molecule, col, row int, skip []*Piece, first bool) []*Piece {
	var out []*Piece
	for _, p := range r.pieces {
		if contains(skip, p) {
			continue
		}
		rel := molecule.Pos(p.Col-col, p.Row-row)
		if m.CollidesWith(p.Molecule, rel) {
			out = append(out, p)
			if first {
				break
			}
		}
	}
	return out
}

func contains(list []*Piece, p *Piece) bool {
	for _, x := range list {
		if x == p {
			return true
		}
	}
	return false
}

// Add places p in the reactor.
func (r *Reactor) Add(p *Piece) { r.pieces = append(r.pieces, p) }

// Remove takes p out of the reactor and reports whether it was there.
func (r *Reactor) Remove(p *Piece) bool {
	for i, x := range r.pieces {
		if x == p {
			r.pieces = append(r.pieces[:i], r.pieces[i+1:]...)
			return true
		}
	}
	return false
}

// Pieces returns the placed pieces ordered bottom-up, then left to right.
func (r *Reactor) Pieces() []*Piece {
	out := append([]*Piece(nil), r.pieces...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

// CanFall reports whether p could move one row down on its own.
func (r *Reactor) CanFall(p *Piece) bool {
	return p.Row > 0 && !r.TestCollision(p.Molecule, p.Col, p.Row-1, p)
}

// FloatingGroup returns p together with every piece it rests on, directly or
// through others, provided none of them touches the floor. The group can then
// fall one row as a block. It returns nil if the group is grounded.
func (r *Reactor) FloatingGroup(p *Piece) []*Piece {
	seen := mapset.New[*Piece]()
	var group []*Piece

	var visit func(q *Piece) bool
	visit = func(q *Piece) bool {
		if q.Row == 0 {
			return false
		}
		seen.Put(q)
		group = append(group, q)
		for _, c := range r.ListColliders(q.Molecule, q.Col, q.Row-1, q) {
			if seen.Has(c) {
				continue
			}
			if !visit(c) {
				return false
			}
		}
		return true
	}

	if !visit(p) {
		return nil
	}
	return group
}

// DelocalizeFreeBonds rotates the free slots of every placed atom.
func (r *Reactor) DelocalizeFreeBonds() {
	for _, p := range r.pieces {
		p.Molecule.DelocalizeFreeBonds()
	}
}
