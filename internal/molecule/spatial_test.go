package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollidesWith(t *testing.T) {
	a := mustParse(t, "a", "H")
	b := mustParse(t, "b", "H")

	assert.True(t, a.CollidesWith(b, Pos(0, 0)))
	assert.False(t, a.CollidesWith(b, Pos(1, 0)))
	assert.False(t, a.CollidesWith(b, Pos(-1, 0)))
	assert.False(t, a.CollidesWith(b, Pos(5, -3)))
}

func TestCollidesWithIgnoresEmptyCells(t *testing.T) {
	m := methanol(t)
	h := mustParse(t, "h", "H")

	// (0,0) is an empty corner of the methanol grid.
	assert.False(t, m.CollidesWith(h, Pos(0, 0)))
	assert.True(t, m.CollidesWith(h, Pos(1, 0)))
	assert.True(t, m.Touches(h, Pos(0, 0)))
}

func TestTouches(t *testing.T) {
	a := mustParse(t, "a", "H")
	b := mustParse(t, "b", "H")

	tests := []struct {
		rel  Position
		want bool
	}{
		{Pos(0, 0), false},
		{Pos(1, 0), true},
		{Pos(-1, 0), true},
		{Pos(0, 1), true},
		{Pos(0, -1), true},
		{Pos(1, 1), false},
		{Pos(2, 0), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Touches(b, tt.rel), "rel %s", tt.rel)
	}
}
