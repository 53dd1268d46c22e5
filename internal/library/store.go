// internal/library/store.go
//
// SQLite-backed molecule library.
// Responsibilities:
//   - Save user layouts after parsing them against the atom table.
//   - Deduplicate identical drawings by a BLAKE2b-256 fingerprint of the
//     canonical layout (the one Molecule.Layout renders).
//   - Look molecules up by ID or name, list recent ones.
//   - Find saved molecules structurally equal to a given one: a SQL prefilter
//     on formula and total bond strength, then Molecule.Equals per candidate.
//
// The molecules table is created by sql/001_library.sql.

package library

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"github.com/robalobadob/chon/internal/molecule"
)

var (
	ErrNotFound      = errors.New("molecule not found")
	ErrEmptyMolecule = errors.New("molecule has no atoms")
)

// Entry is one saved molecule.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Layout      []string  `json:"layout"`
	Fingerprint string    `json:"fingerprint"`
	Formula     string    `json:"formula"`
	Atoms       int       `json:"atoms"`
	Bonds       int       `json:"bonds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store wraps the library table.
type Store struct {
	db    *sql.DB
	atoms molecule.Catalog
}

// NewStore returns a library bound to db. Layouts are parsed against atoms.
func NewStore(db *sql.DB, atoms molecule.Catalog) *Store {
	return &Store{db: db, atoms: atoms}
}

// Fingerprint is the hex BLAKE2b-256 digest of the canonical layout of m.
func Fingerprint(m *molecule.Molecule) string {
	sum := blake2b.Sum256([]byte(strings.Join(m.Layout(), "\n")))
	return hex.EncodeToString(sum[:])
}

// Save parses layout and stores it under name. If the same canonical layout
// is already saved, the existing entry is returned with created=false.
func (s *Store) Save(ctx context.Context, name string, layout []string) (Entry, bool, error) {
	m, err := molecule.Parse(name, s.atoms, layout)
	if err != nil {
		return Entry{}, false, err
	}
	if m.CountAtoms("") == 0 {
		return Entry{}, false, ErrEmptyMolecule
	}

	e := Entry{
		ID:          uuid.NewString(),
		Name:        name,
		Layout:      m.Layout(),
		Fingerprint: Fingerprint(m),
		Formula:     m.Formula(),
		Atoms:       m.CountAtoms(""),
		Bonds:       m.CountBonds(0),
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO molecules
            (id, name, layout, fingerprint, formula, atoms, bonds, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Name, strings.Join(e.Layout, "\n"), e.Fingerprint, e.Formula, e.Atoms, e.Bonds,
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Entry{}, false, fmt.Errorf("insert molecule: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		existing, err := s.one(ctx, `WHERE fingerprint=?`, e.Fingerprint)
		return existing, false, err
	}
	return e, true, nil
}

// Get returns a saved molecule by ID.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	return s.one(ctx, `WHERE id=?`, id)
}

// GetByName returns the most recently saved molecule with the given name
// (case-insensitive).
func (s *Store) GetByName(ctx context.Context, name string) (Entry, error) {
	return s.one(ctx, `WHERE lower(name)=lower(?) ORDER BY created_at DESC, id LIMIT 1`, name)
}

// List returns up to limit entries, newest first. Default limit is 50.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.query(ctx, `ORDER BY created_at DESC, id LIMIT ?`, limit)
}

// Delete removes an entry by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM molecules WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// FindEquivalent returns every saved molecule structurally equal to m,
// regardless of how it was drawn.
func (s *Store) FindEquivalent(ctx context.Context, m *molecule.Molecule) ([]Entry, error) {
	candidates, err := s.query(ctx, `WHERE formula=? AND bonds=? ORDER BY created_at, id`,
		m.Formula(), m.CountBonds(0))
	if err != nil {
		return nil, err
	}
	out := []Entry{}
	for _, e := range candidates {
		saved, err := molecule.Parse(e.Name, s.atoms, e.Layout)
		if err != nil {
			return nil, fmt.Errorf("stored molecule %s: %w", e.ID, err)
		}
		if saved.Equals(m) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Build parses a saved entry back into a molecule.
func (s *Store) Build(e Entry) (*molecule.Molecule, error) {
	return molecule.Parse(e.Name, s.atoms, e.Layout)
}

const selectEntry = `SELECT id, name, layout, fingerprint, formula, atoms, bonds, created_at FROM molecules `

func (s *Store) one(ctx context.Context, where string, args ...any) (Entry, error) {
	row := s.db.QueryRowContext(ctx, selectEntry+where, args...)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	return e, err
}

func (s *Store) query(ctx context.Context, where string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntry+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var e Entry
	var layout, created string
	if err := sc.Scan(&e.ID, &e.Name, &layout, &e.Fingerprint, &e.Formula, &e.Atoms, &e.Bonds, &created); err != nil {
		return Entry{}, err
	}
	e.Layout = strings.Split(layout, "\n")
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, nil
}
