package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionRoundTrip(t *testing.T) {
	for _, d := range Directions {
		o := d.Offset()
		got, err := DirectionOf(o.Col, o.Row)
		require.NoError(t, err)
		assert.Equal(t, d, got)
		assert.Equal(t, d, d.Opposite().Opposite())
		assert.Equal(t, 1, abs(o.Col)+abs(o.Row), "offset of %s must be unit", d)
	}
}

func TestDirectionOffsets(t *testing.T) {
	assert.Equal(t, Pos(0, -1), Up.Offset())
	assert.Equal(t, Pos(1, 0), Right.Offset())
	assert.Equal(t, Pos(0, 1), Down.Offset())
	assert.Equal(t, Pos(-1, 0), Left.Offset())
	assert.Equal(t, Down, Up.Opposite())
	assert.Equal(t, Left, Right.Opposite())
}

func TestDirectionTurn(t *testing.T) {
	assert.Equal(t, Right, Up.Turn(1))
	assert.Equal(t, Up, Left.Turn(1))
	assert.Equal(t, Left, Up.Turn(-1))
	assert.Equal(t, Down, Down.Turn(8))
}

func TestDirectionOfRejectsNonUnitOffsets(t *testing.T) {
	for _, o := range []Position{{0, 0}, {1, 1}, {2, 0}, {-1, -1}, {0, 3}} {
		_, err := DirectionOf(o.Col, o.Row)
		assert.ErrorIs(t, err, ErrNotAdjacent, "offset %s", o)
	}
}

func TestPositionStep(t *testing.T) {
	p := Pos(2, 3)
	assert.Equal(t, Pos(2, 2), p.Step(Up))
	assert.Equal(t, Pos(3, 3), p.Step(Right))
	assert.Equal(t, Pos(-1, 1), Pos(1, 4).Sub(p))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
