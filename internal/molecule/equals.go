// internal/molecule/equals.go
//
// Structural equality: do two molecules describe the same bonded-atom graph,
// independent of position, rotation and mirroring?
//
// The check never rotates either grid. It runs in two phases:
//   1. Cheap statistics (atom counts per symbol, bond totals, bond counts per
//      order). Most mismatches stop here.
//   2. A recursive traversal anchored at an end atom of m and tried against
//      every equal atom of other, in row-major order.
//
// Each traversal frame works on its own copies of both molecules with the
// current cell cleared, so no edge is walked twice and every frame sees
// strictly fewer atoms than its parent.

package molecule

import "github.com/zyedidia/generic/mapset"

// Equals reports whether m and other are structurally the same molecule.
func (m *Molecule) Equals(other *Molecule) bool {
	if m.CountAtoms("") != other.CountAtoms("") {
		return false
	}

	symbols := mapset.New[string]()
	m.each(func(_ Position, a *Atom) { symbols.Put(a.Symbol) })
	sameSymbols := true
	symbols.Each(func(s string) {
		if sameSymbols && m.CountAtoms(s) != other.CountAtoms(s) {
			sameSymbols = false
		}
	})
	if !sameSymbols {
		return false
	}

	bonds1, bonds2 := m.boundTally(), other.boundTally()
	if bonds1[0] != bonds2[0] {
		return false
	}
	// Bond-less molecules with matching atoms are equal by definition.
	if bonds1[0] == 0 {
		return true
	}
	if bonds1 != bonds2 {
		return false
	}

	ends := m.EndPositions()
	if len(ends) == 0 {
		return false
	}
	end1 := ends[0]
	anchor := m.Atom(end1)

	var found bool
	other.each(func(p Position, a *Atom) {
		if found || !a.Equals(anchor) {
			return
		}
		found = matchFrom(end1, p, m, other)
	})
	return found
}

// boundTally returns [total bond strength, #single, #double, #triple] summed
// over both ends of every bond.
func (m *Molecule) boundTally() [4]int {
	var t [4]int
	m.each(func(_ Position, a *Atom) {
		t[0] += a.Bound.Sum()
		for order := 1; order <= 3; order++ {
			t[order] += a.Bound.Count(order)
		}
	})
	return t
}

// EndPositions lists the atoms bonded to exactly one neighbour. If there are
// none, it lists the atoms bonded to exactly two instead.
func (m *Molecule) EndPositions() []Position {
	for degree := 1; degree <= 2; degree++ {
		var ends []Position
		m.each(func(p Position, a *Atom) {
			if a.CountConnected() == degree {
				ends = append(ends, p)
			}
		})
		if len(ends) > 0 {
			return ends
		}
	}
	return nil
}

// matchFrom compares the subgraph reachable from p1 in m1 with the one
// reachable from p2 in m2. Every bonded neighbour of p1 must be paired with a
// distinct bonded neighbour of p2 that matches recursively.
func matchFrom(p1, p2 Position, m1, m2 *Molecule) bool {
	a1, a2 := m1.Atom(p1), m2.Atom(p2)
	if !a1.Equals(a2) {
		return false
	}

	next1 := m1.Copy()
	next1.SetAtom(p1, nil)
	next2 := m2.Copy()
	next2.SetAtom(p2, nil)

	var used [4]bool
	for _, d1 := range Directions {
		if a1.Bound[d1] == 0 {
			continue
		}
		q1 := p1.Step(d1)
		n1 := m1.Atom(q1)

		match := false
		for _, d2 := range Directions {
			if a2.Bound[d2] == 0 || used[d2] {
				continue
			}
			q2 := p2.Step(d2)
			n2 := m2.Atom(q2)
			switch {
			case n1 == nil && n2 == nil:
				// Both sides lead back to an atom already visited.
				match = true
			case n1 != nil && n2 != nil:
				match = matchFrom(q1, q2, next1, next2)
			}
			if match {
				used[d2] = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}
