package molecule

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCatalog() Catalog {
	return Catalog{
		"H": NewAtom("H", "Hydrogen", [4]float64{1, 1, 1, 1}, 1),
		"O": NewAtom("O", "Oxygen", [4]float64{1, 0, 0, 1}, 2),
		"N": NewAtom("N", "Nitrogen", [4]float64{0, 0, 1, 1}, 3),
		"C": NewAtom("C", "Carbon", [4]float64{0.3, 0.3, 0.3, 1}, 4),
	}
}

func mustParse(t *testing.T, name string, lines ...string) *Molecule {
	t.Helper()
	m, err := Parse(name, testCatalog(), lines)
	require.NoError(t, err)
	return m
}

// sameGrid compares dims, symbols and bond state cell by cell.
func sameGrid(t *testing.T, want, got *Molecule) {
	t.Helper()
	wc, wr := want.Dim()
	gc, gr := got.Dim()
	require.Equal(t, [2]int{wc, wr}, [2]int{gc, gr}, "dims")
	for y := 0; y < wr; y++ {
		for x := 0; x < wc; x++ {
			a, b := want.Atom(Pos(x, y)), got.Atom(Pos(x, y))
			if a == nil || b == nil {
				require.Nil(t, a, "cell (%d, %d)", x, y)
				require.Nil(t, b, "cell (%d, %d)", x, y)
				continue
			}
			require.Equal(t, a.Symbol, b.Symbol, "cell (%d, %d)", x, y)
			require.Equal(t, a.Bound, b.Bound, "bound at (%d, %d)", x, y)
			require.Equal(t, a.Free, b.Free, "free at (%d, %d)", x, y)
		}
	}
}

// methanol:
//
//	  H
//	  |
//	H-C-O-H
//	  |
//	  H
func methanol(t *testing.T) *Molecule {
	return mustParse(t, "methanol",
		"  H",
		"  |",
		"H-C-O-H",
		"  |",
		"  H",
	)
}
