package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqualsReflexiveAndSymmetric(t *testing.T) {
	m := methanol(t)
	assert.True(t, m.Equals(m))
	assert.True(t, m.Equals(m.Copy()))

	other := mustParse(t, "chain", "H-C-O-H")
	assert.Equal(t, m.Equals(other), other.Equals(m))
}

func TestEqualsIgnoresRotation(t *testing.T) {
	for k := 1; k <= 3; k++ {
		m := methanol(t)
		m.Rotate(k)
		assert.True(t, methanol(t).Equals(m), "rotated %d", k)
		assert.True(t, m.Equals(methanol(t)), "rotated %d, reversed", k)
	}
}

func TestEqualsIgnoresMirroring(t *testing.T) {
	m := mustParse(t, "acetaldehyde-ish",
		"H-C-C=O",
		"  |",
		"  H",
	)
	flipped := m.Copy()
	flipped.HFlip()
	assert.True(t, m.Equals(flipped))

	flipped.VFlip()
	flipped.Rotate(1)
	assert.True(t, m.Equals(flipped))
}

func TestEqualsIgnoresLayoutPosition(t *testing.T) {
	a := mustParse(t, "water", "H-O-H")
	b := mustParse(t, "water bent",
		"H-O",
		"  |",
		"  H",
	)
	assert.True(t, a.Equals(b))
	assert.True(t, b.Equals(a))
}

func TestEqualsDistinguishesTopology(t *testing.T) {
	chain := mustParse(t, "chain", "H-C-O-H")
	star := mustParse(t, "star",
		"H-C-H",
		"  |",
		"  O",
	)
	assert.False(t, chain.Equals(star))
	assert.False(t, star.Equals(chain))
}

func TestEqualsStatistics(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
	}{
		{"atom count", []string{"H-H"}, []string{"H-O-H"}},
		{"symbols", []string{"O=O"}, []string{"N=N"}},
		{"bond total", []string{"C-C"}, []string{"C=C"}},
		{"bond orders", []string{"C≡C-C"}, []string{"C=C=C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustParse(t, "a", tt.a...)
			b := mustParse(t, "b", tt.b...)
			assert.False(t, a.Equals(b))
			assert.False(t, b.Equals(a))
		})
	}
}

func TestEqualsBondless(t *testing.T) {
	h := mustParse(t, "h", "H")
	assert.True(t, h.Equals(mustParse(t, "h", "H")))
	assert.False(t, h.Equals(mustParse(t, "o", "O")))

	spread := mustParse(t, "pair", "H H")
	stacked := mustParse(t, "pair", "H", ".", "H")
	assert.True(t, spread.Equals(stacked))
}

func TestEqualsRing(t *testing.T) {
	ring := mustParse(t, "ring",
		"C-C",
		"| |",
		"C-C",
	)
	turned := ring.Copy()
	turned.Rotate(1)
	assert.True(t, ring.Equals(turned))
	assert.False(t, ring.Equals(mustParse(t, "chain", "C-C-C-C")))
}

func TestEndPositions(t *testing.T) {
	m := mustParse(t, "water", "H-O-H")
	assert.Equal(t, []Position{Pos(0, 0), Pos(2, 0)}, m.EndPositions())

	ring := mustParse(t, "ring",
		"C-C",
		"| |",
		"C-C",
	)
	assert.Len(t, ring.EndPositions(), 4)

	assert.Nil(t, mustParse(t, "h", "H").EndPositions())
}
