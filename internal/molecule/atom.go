// internal/molecule/atom.go
//
// Atom: one grid cell's chemical identity plus its bond-slot state.
//
// Each atom carries two arrays indexed by Direction:
//   - Free:  unbonded electron slots still available for bonding.
//   - Bound: committed bond order (0 none, 1 single, 2 double, 3 triple) to the
//     neighbour in that direction.
//
// sum(Free)+sum(Bound) is the atom's valence and never grows after construction.
// Atom is a plain value: both arrays are Go arrays, so assigning or copying an
// Atom never aliases bond state.

package molecule

// Bonds holds one small integer per Direction.
type Bonds [4]int

// Sum returns the total over all directions.
func (b Bonds) Sum() int { return b[0] + b[1] + b[2] + b[3] }

// Count returns how many directions hold exactly v.
func (b Bonds) Count(v int) int {
	n := 0
	for _, x := range b {
		if x == v {
			n++
		}
	}
	return n
}

// rotated returns b turned clockwise by one quarter: new[i] = old[i-1].
func (b Bonds) rotated() Bonds {
	return Bonds{b[3], b[0], b[1], b[2]}
}

// swapped returns b with the entries of directions d1 and d2 exchanged.
func (b Bonds) swapped(d1, d2 Direction) Bonds {
	b[d1], b[d2] = b[d2], b[d1]
	return b
}

// Atom is a single atom placed in a Molecule cell.
type Atom struct {
	Symbol string     `json:"symbol"`
	Name   string     `json:"name"`
	Color  [4]float64 `json:"color"`
	Free   Bonds      `json:"free"`
	Bound  Bonds      `json:"bound"`
}

// NewAtom creates an unbonded atom with the given valence (1..4). The free
// slots are laid out clockwise starting at Up.
func NewAtom(symbol, name string, color [4]float64, valence int) Atom {
	a := Atom{Symbol: symbol, Name: name, Color: color}
	for i := 0; i < valence && i < 4; i++ {
		a.Free[i] = 1
	}
	return a
}

// Valence is the fixed slot total of the atom.
func (a Atom) Valence() int { return a.Free.Sum() + a.Bound.Sum() }

// TotalFree is the remaining bonding capacity.
func (a Atom) TotalFree() int { return a.Free.Sum() }

// TotalBound is the number of bond slots in use.
func (a Atom) TotalBound() int { return a.Bound.Sum() }

// CountConnected returns the number of bonded neighbours (not bonds).
func (a Atom) CountConnected() int { return 4 - a.Bound.Count(0) }

// DelocalizeFree cyclically moves the free slots one position along the
// unbound directions. Bound directions and connectivity are unaffected.
func (a *Atom) DelocalizeFree() {
	var dests []Direction
	for _, d := range Directions {
		if a.Bound[d] == 0 {
			dests = append(dests, d)
		}
	}
	if len(dests) < 2 {
		return
	}
	first := a.Free[dests[0]]
	for i := 0; i < len(dests)-1; i++ {
		a.Free[dests[i]] = a.Free[dests[i+1]]
	}
	a.Free[dests[len(dests)-1]] = first
}

// Equals reports structural atom equality: same symbol and the same number of
// single, double and triple bonds regardless of their directions. Free slots
// and color are ignored.
func (a *Atom) Equals(other *Atom) bool {
	if a == nil || other == nil {
		return a == other
	}
	if a.Symbol != other.Symbol {
		return false
	}
	for order := 1; order <= 3; order++ {
		if a.Bound.Count(order) != other.Bound.Count(order) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the atom.
func (a *Atom) Copy() *Atom {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (a *Atom) rotate() {
	a.Free = a.Free.rotated()
	a.Bound = a.Bound.rotated()
}

func (a *Atom) mirror(d1, d2 Direction) {
	a.Free = a.Free.swapped(d1, d2)
	a.Bound = a.Bound.swapped(d1, d2)
}

func (a *Atom) String() string { return a.Symbol }
