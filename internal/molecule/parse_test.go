package molecule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHydrogen(t *testing.T) {
	m := mustParse(t, "H2", "H-H")

	cols, rows := m.Dim()
	assert.Equal(t, 2, cols)
	assert.Equal(t, 1, rows)
	assert.Equal(t, 2, m.CountAtoms("H"))
	assert.Equal(t, 1, m.CountBonds(1))
	assert.Equal(t, Bonds{0, 1, 0, 0}, m.Atom(Pos(0, 0)).Bound)
	assert.Equal(t, Bonds{0, 0, 0, 1}, m.Atom(Pos(1, 0)).Bound)
	assert.False(t, m.HasFreeBonds())
}

func TestParseWater(t *testing.T) {
	m := mustParse(t, "water", "H-O-H")

	assert.Equal(t, 3, m.CountAtoms(""))
	assert.Equal(t, 2, m.CountBonds(1))
	o := m.Atom(Pos(1, 0))
	require.NotNil(t, o)
	assert.Equal(t, Bonds{0, 1, 0, 1}, o.Bound)
	assert.Equal(t, Bonds{}, o.Free)
	assert.Equal(t, 0, m.Atom(Pos(0, 0)).TotalFree())
	assert.Equal(t, 0, m.Atom(Pos(2, 0)).TotalFree())
	assert.False(t, m.HasFreeBonds())
	assert.NoError(t, m.Validate())
}

func TestParseVerticalAndHorizontalBonds(t *testing.T) {
	m := methanol(t)

	cols, rows := m.Dim()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 3, rows)
	assert.Equal(t, 1, m.CountAtoms("C"))
	assert.Equal(t, 1, m.CountAtoms("O"))
	assert.Equal(t, 4, m.CountAtoms("H"))
	assert.Equal(t, 5, m.CountBonds(1))
	assert.Equal(t, Bonds{1, 1, 1, 1}, m.Atom(Pos(1, 1)).Bound)
	assert.False(t, m.HasFreeBonds())
}

func TestParseBondCharacters(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		order  int
		bonds  int
		free   bool
		symbol string
	}{
		{"ascii double", []string{"O=O"}, 2, 1, false, "O"},
		{"digit double", []string{"O2O"}, 2, 1, false, "O"},
		{"vertical double", []string{"O", "‖", "O"}, 2, 1, false, "O"},
		{"triple", []string{"N≡N"}, 3, 1, false, "N"},
		{"vertical triple", []string{"N", "⦀", "N"}, 3, 1, false, "N"},
		{"digit single leaves free slots", []string{"C1C"}, 1, 1, true, "C"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, tt.name, tt.lines...)
			assert.Equal(t, tt.bonds, m.CountBonds(tt.order))
			assert.Equal(t, 2, m.CountAtoms(tt.symbol))
			assert.Equal(t, tt.free, m.HasFreeBonds())
		})
	}
}

func TestParseTrimsMargins(t *testing.T) {
	m := mustParse(t, "hydroxyl",
		"   O-H  ",
		"   |",
		"   H",
		"      ",
	)
	cols, rows := m.Dim()
	assert.Equal(t, 2, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, Bonds{0, 1, 1, 0}, m.Atom(Pos(0, 0)).Bound)
	assert.Equal(t, 2, m.CountBonds(1))
}

func TestParseCopiesCatalogAtoms(t *testing.T) {
	cat := testCatalog()
	m, err := Parse("water", cat, []string{"H-O-H"})
	require.NoError(t, err)

	assert.Equal(t, Bonds{1, 0, 0, 0}, cat["H"].Free, "template must not be mutated")
	assert.NotSame(t, m.Atom(Pos(0, 0)), m.Atom(Pos(2, 0)))
}

func TestParseInvalidSymbolKeepsPriorState(t *testing.T) {
	m := mustParse(t, "water", "H-O-H")
	before := m.Copy()

	err := m.Parse(testCatalog(), []string{"H-X"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	var se *SymbolError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 'X', se.Symbol)
	assert.Equal(t, Pos(1, 0), se.Pos)
	assert.Equal(t, "water", se.Molecule)
	assert.Contains(t, err.Error(), "water")

	sameGrid(t, before, m)
}

func TestParseBondErrors(t *testing.T) {
	_, err := Parse("overbonded", testCatalog(), []string{"H=H"})
	assert.ErrorIs(t, err, ErrInsufficientFreeBonds)

	_, err = Parse("dangling", testCatalog(), []string{"H H", "  |", "H"})
	assert.ErrorIs(t, err, ErrNotAnAtom)
}

func TestParseDiscardsBlankLines(t *testing.T) {
	m, err := ParseText("water", testCatalog(), "\nH-O-H\n\n")
	require.NoError(t, err)
	assert.Equal(t, 3, m.CountAtoms(""))
	assert.Equal(t, []string{"H-O-H"}, m.Layout())

	m, err = Parse("stacked", testCatalog(), []string{"", "O-H", "", "|", "  ", "H", ""})
	require.NoError(t, err)
	sameGrid(t, mustParse(t, "stacked", "O-H", "|", "H"), m)
}

func TestParseRejectsAtomsOnBondPositions(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"atom on bond line", []string{"H", "H"}},
		{"atom between atoms", []string{"HOH"}},
		{"trailing atom line", []string{"O-H", "|", "H", "H"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustParse(t, "water", "H-O-H")
			before := m.Copy()
			err := m.Parse(testCatalog(), tt.lines)
			assert.ErrorIs(t, err, ErrMisplacedAtom)
			sameGrid(t, before, m)
		})
	}
}

func TestLayoutMarksEmptyBondLines(t *testing.T) {
	m := mustParse(t, "pair", "H", ".", "H")
	cols, rows := m.Dim()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 2, rows)
	assert.Zero(t, m.CountBonds(1))

	layout := m.Layout()
	assert.Equal(t, []string{"H", ".", "H"}, layout)
	again, err := Parse("pair", testCatalog(), layout)
	require.NoError(t, err)
	sameGrid(t, m, again)
}

func TestParseTextAndLayoutRoundTrip(t *testing.T) {
	m, err := ParseText("methanol", testCatalog(), "  H\n  |\nH-C-O-H\n  |\n  H\n")
	require.NoError(t, err)
	sameGrid(t, methanol(t), m)

	layout := m.Layout()
	assert.Equal(t, []string{"  H", "  |", "H-C-O-H", "  |", "  H"}, layout)

	again, err := Parse("methanol", testCatalog(), layout)
	require.NoError(t, err)
	sameGrid(t, m, again)
}

func TestLayoutRendersBondOrders(t *testing.T) {
	m := mustParse(t, "mixed", "O=C=O")
	assert.Equal(t, []string{"O=C=O"}, m.Layout())

	m = mustParse(t, "n2", "N", "⦀", "N")
	assert.Equal(t, []string{"N", "⦀", "N"}, m.Layout())
	assert.Equal(t, "N\nN", m.String())
}

func TestParseEmpty(t *testing.T) {
	m, err := Parse("nothing", testCatalog(), nil)
	require.NoError(t, err)
	assert.True(t, m.IsEmpty())
	assert.Nil(t, m.Layout())
}
