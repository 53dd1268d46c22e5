// internal/molecule/bonds.go
//
// Bond algebra between two orthogonally adjacent atoms of one molecule.
// Every operation validates in this order, before touching any state:
//   1. the positions are next to each other   (ErrNotAdjacent)
//   2. both cells hold atoms                   (ErrNotAnAtom)
//   3. the mirrored Bound entries agree         (ErrCorruptBondData)

package molecule

import "fmt"

// bondSite is a validated adjacent pair with its two facing directions.
type bondSite struct {
	a1, a2     *Atom
	dir1, dir2 Direction
}

func (m *Molecule) site(p1, p2 Position) (bondSite, error) {
	d := p2.Sub(p1)
	dir1, err := DirectionOf(d.Col, d.Row)
	if err != nil {
		return bondSite{}, fmt.Errorf("%s and %s: %w", p1, p2, ErrNotAdjacent)
	}
	s := bondSite{a1: m.Atom(p1), a2: m.Atom(p2), dir1: dir1, dir2: dir1.Opposite()}
	if s.a1 == nil {
		return bondSite{}, fmt.Errorf("pos1 %s: %w", p1, ErrNotAnAtom)
	}
	if s.a2 == nil {
		return bondSite{}, fmt.Errorf("pos2 %s: %w", p2, ErrNotAnAtom)
	}
	if s.a1.Bound[s.dir1] != s.a2.Bound[s.dir2] {
		return bondSite{}, fmt.Errorf("%q between %s and %s: %w", m.Name, p1, p2, ErrCorruptBondData)
	}
	return s, nil
}

// DisconnectAtoms turns the bond between p1 and p2 back into free slots on
// both atoms. Disconnecting an unbonded pair is a no-op.
func (m *Molecule) DisconnectAtoms(p1, p2 Position) error {
	s, err := m.site(p1, p2)
	if err != nil {
		return err
	}
	nr := s.a1.Bound[s.dir1]
	s.a1.Bound[s.dir1], s.a2.Bound[s.dir2] = 0, 0
	s.a1.Free[s.dir1] += nr
	s.a2.Free[s.dir2] += nr
	return nil
}

// IsConnected reports whether p1 and p2 share a bond.
func (m *Molecule) IsConnected(p1, p2 Position) (bool, error) {
	s, err := m.site(p1, p2)
	if err != nil {
		return false, err
	}
	return s.a1.Bound[s.dir1] != 0, nil
}

// ConnectAtoms bonds p1 and p2 with nr (1..3) bonds, replacing any existing
// bond between them.
//
// The applied order is min(nr, free capacity of either atom). With pedantic
// set, a shortfall fails with ErrInsufficientFreeBonds instead. Free slots are
// consumed clockwise starting at the bonding direction, draining each
// direction before moving on.
//
// Returns true if a bond was applied.
func (m *Molecule) ConnectAtoms(p1, p2 Position, nr int, pedantic bool) (bool, error) {
	if nr < 1 || nr > 3 {
		return false, fmt.Errorf("nr=%d: %w", nr, ErrInvalidBondCount)
	}
	s, err := m.site(p1, p2)
	if err != nil {
		return false, err
	}

	// Work out the capacity as if the pair were already disconnected, so a
	// pedantic failure leaves the existing bond in place.
	held := s.a1.Bound[s.dir1]
	maxNr := min(s.a1.TotalFree()+held, s.a2.TotalFree()+held)
	if pedantic && maxNr < nr {
		return false, fmt.Errorf("%s and %s: requested %d, available %d: %w",
			p1, p2, nr, maxNr, ErrInsufficientFreeBonds)
	}
	if err := m.DisconnectAtoms(p1, p2); err != nil {
		return false, err
	}

	bonds := min(maxNr, nr)
	s.a1.Bound[s.dir1] = bonds
	s.a2.Bound[s.dir2] = bonds
	consumeFree(s.a1, s.dir1, bonds)
	consumeFree(s.a2, s.dir2, bonds)
	return bonds > 0, nil
}

// consumeFree drains n free slots from a, clockwise from start.
func consumeFree(a *Atom, start Direction, n int) {
	for i := 0; i < 4 && n > 0; i++ {
		d := start.Turn(i)
		take := min(a.Free[d], n)
		a.Free[d] -= take
		n -= take
	}
}
