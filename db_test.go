package main

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDBCreatesDirectory(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "chon.db")
	db, err := openDB(dsn)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(filepath.Dir(dsn))
	assert.NoError(t, err)
}

func TestMigrateAppliesOnce(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "chon.db"))
	require.NoError(t, err)
	defer db.Close()

	applied, err := migrate(db, os.DirFS("sql"))
	require.NoError(t, err)
	assert.Equal(t, []string{"001_library.sql"}, applied)

	applied, err = migrate(db, os.DirFS("sql"))
	require.NoError(t, err)
	assert.Empty(t, applied)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM molecules`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrateStopsOnBrokenScript(t *testing.T) {
	db, err := openDB(filepath.Join(t.TempDir(), "chon.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":     {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"002_broken.sql": {Data: []byte(`CREATE TABLE b (id INTEGER); NOT SQL;`)},
		"readme.txt":     {Data: []byte(`ignored`)},
	}
	applied, err := migrate(db, fsys)
	require.Error(t, err)
	assert.Equal(t, []string{"001_ok.sql"}, applied)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
	err = db.QueryRow(`SELECT COUNT(*) FROM b`).Scan(&n)
	assert.Error(t, err, "failed migration is rolled back")
}
