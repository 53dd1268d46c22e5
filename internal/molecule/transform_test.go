package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateOnce(t *testing.T) {
	m := mustParse(t, "oh", "H-O")
	m.Rotate(1)

	cols, rows := m.Dim()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, Bonds{0, 0, 1, 0}, m.Atom(Pos(0, 0)).Bound)
	assert.Equal(t, Bonds{1, 0, 0, 0}, m.Atom(Pos(0, 1)).Bound)
	assert.Equal(t, []string{"H", "|", "O"}, m.Layout())
	assert.NoError(t, m.Validate())
}

func TestRotateFullTurnIsIdentity(t *testing.T) {
	m := methanol(t)
	m.Rotate(4)
	sameGrid(t, methanol(t), m)

	for i := 0; i < 4; i++ {
		m.Rotate(1)
		require.NoError(t, m.Validate())
	}
	sameGrid(t, methanol(t), m)
}

func TestRotateNegative(t *testing.T) {
	ccw := methanol(t)
	ccw.Rotate(-1)
	cw := methanol(t)
	cw.Rotate(3)
	sameGrid(t, cw, ccw)

	cols, rows := ccw.Dim()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 4, rows)
}

func TestRotateMovesFreeSlots(t *testing.T) {
	m := mustParse(t, "co", "C=O")
	m.Rotate(1)
	// C kept Up and Left free; after a clockwise turn those face Right and Up.
	assert.Equal(t, Bonds{1, 1, 0, 0}, m.Atom(Pos(0, 0)).Free)
	assert.Equal(t, Bonds{0, 0, 2, 0}, m.Atom(Pos(0, 0)).Bound)
}

func TestFlipsAreInvolutions(t *testing.T) {
	for _, o := range []Orientation{Horizontal, Vertical} {
		t.Run(string(o), func(t *testing.T) {
			m := methanol(t)
			require.NoError(t, m.Flip(o))
			require.NoError(t, m.Validate())
			require.NoError(t, m.Flip(o))
			sameGrid(t, methanol(t), m)
		})
	}
}

func TestHFlip(t *testing.T) {
	m := mustParse(t, "hoc", "H-O-C")
	m.HFlip()
	assert.Equal(t, []string{"C-O-H"}, m.Layout())
	c := m.Atom(Pos(0, 0))
	assert.Equal(t, "C", c.Symbol)
	assert.Equal(t, Bonds{0, 1, 0, 0}, c.Bound)
	assert.Equal(t, Bonds{1, 0, 1, 1}, c.Free)
	assert.NoError(t, m.Validate())
}

func TestFlipRejectsUnknownOrientation(t *testing.T) {
	m := mustParse(t, "h2", "H-H")
	assert.ErrorIs(t, m.Flip("diagonal"), ErrInvalidOrientation)
	assert.Equal(t, []string{"H-H"}, m.Layout())
}
