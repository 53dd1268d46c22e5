package library

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/chon/internal/molecule"
)

var atoms = molecule.Catalog{
	"H": molecule.NewAtom("H", "Hydrogen", [4]float64{1, 1, 1, 1}, 1),
	"O": molecule.NewAtom("O", "Oxygen", [4]float64{1, 0, 0, 1}, 2),
	"C": molecule.NewAtom("C", "Carbon", [4]float64{0, 0, 0, 1}, 4),
}

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../sql/001_library.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)
	return NewStore(db, atoms)
}

func TestSaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	e, created, err := s.Save(ctx, "Water", []string{"  H-O-H  "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, []string{"H-O-H"}, e.Layout)
	assert.Equal(t, "H2O", e.Formula)
	assert.Equal(t, 3, e.Atoms)
	assert.Equal(t, 2, e.Bonds)
	assert.Len(t, e.Fingerprint, 64)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, e.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt = e.CreatedAt
	assert.Equal(t, e, got)

	byName, err := s.GetByName(ctx, "water")
	require.NoError(t, err)
	assert.Equal(t, e.ID, byName.ID)
}

func TestSaveDeduplicatesLayouts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, created, err := s.Save(ctx, "Water", []string{"H-O-H"})
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := s.Save(ctx, "Also water", []string{"  ", "  H-O-H", " "})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Water", again.Name)

	list, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSaveRejectsBadLayouts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, _, err := s.Save(ctx, "bad", []string{"H-X"})
	assert.ErrorIs(t, err, molecule.ErrInvalidSymbol)

	_, _, err = s.Save(ctx, "empty", []string{"   "})
	assert.ErrorIs(t, err, ErrEmptyMolecule)
}

func TestGetMissing(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetByName(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "nope"), ErrNotFound)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	water, _, err := s.Save(ctx, "Water", []string{"H-O-H"})
	require.NoError(t, err)
	_, _, err = s.Save(ctx, "Methane", []string{"  H", "  |", "H-C-H", "  |", "  H"})
	require.NoError(t, err)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = s.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.Delete(ctx, water.ID))
	list, err = s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Methane", list[0].Name)
}

func TestFindEquivalent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	straight, _, err := s.Save(ctx, "Water", []string{"H-O-H"})
	require.NoError(t, err)
	bent, _, err := s.Save(ctx, "Bent water", []string{"H-O", "  |", "  H"})
	require.NoError(t, err)
	_, _, err = s.Save(ctx, "Hydroxyl", []string{"O-H"})
	require.NoError(t, err)

	probe, err := molecule.Parse("probe", atoms, []string{"H", "|", "O", "|", "H"})
	require.NoError(t, err)

	found, err := s.FindEquivalent(ctx, probe)
	require.NoError(t, err)
	ids := []string{}
	for _, e := range found {
		ids = append(ids, e.ID)
	}
	assert.ElementsMatch(t, []string{straight.ID, bent.ID}, ids)

	m, err := s.Build(bent)
	require.NoError(t, err)
	assert.True(t, m.Equals(probe))
}

func TestFingerprintIgnoresMargins(t *testing.T) {
	a, err := molecule.Parse("a", atoms, []string{"O=C"})
	require.NoError(t, err)
	b, err := molecule.Parse("b", atoms, []string{"   ", "   O=C   "})
	require.NoError(t, err)
	c, err := molecule.Parse("c", atoms, []string{"C=O"})
	require.NoError(t, err)

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
