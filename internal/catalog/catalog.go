// internal/catalog/catalog.go
//
// Element and molecule catalogs for the game and the HTTP API.
//
// Responsibilities:
//   - Load the atom table, the spawnable fragments and the bonus targets.
//   - Fall back to the embedded defaults in assets/ for any file not configured.
//   - Parse catalog layouts into molecules against the loaded atom table.
//
// Initialization behavior (Init):
//   1. Each of CHON_ATOMS_FILE, CHON_FRAGMENTS_FILE and CHON_BONUS_FILE, when
//      set, replaces the matching embedded default.
//   2. The file format follows the extension: .json, .yaml/.yml or .toml.
//      TOML files hold their records in [[atom]] / [[molecule]] tables.
//   3. Every fragment and bonus layout must parse against the atom table.
//
// Environment variables:
//   CHON_ATOMS_FILE=/path/to/atoms.yaml
//   CHON_FRAGMENTS_FILE=/path/to/fragments.json
//   CHON_BONUS_FILE=/path/to/bonus.toml
//
// Init runs once (sync.Once); Load builds independent catalogs for tests.

package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/chon/assets"
	"github.com/robalobadob/chon/internal/daily"
	"github.com/robalobadob/chon/internal/molecule"
)

// ErrUnknownMolecule is returned for fragment or bonus names not in the catalog.
var ErrUnknownMolecule = errors.New("unknown molecule")

// Files names the catalog sources. Empty entries use the embedded defaults.
type Files struct {
	Atoms     string
	Fragments string
	Bonus     string
}

// FilesFromEnv reads the CHON_*_FILE overrides.
func FilesFromEnv() Files {
	return Files{
		Atoms:     os.Getenv("CHON_ATOMS_FILE"),
		Fragments: os.Getenv("CHON_FRAGMENTS_FILE"),
		Bonus:     os.Getenv("CHON_BONUS_FILE"),
	}
}

// Catalog is an immutable set of atoms, fragments and bonus targets.
type Catalog struct {
	specs     []AtomSpec
	atoms     molecule.Catalog
	fragments []MoleculeSpec
	bonus     []MoleculeSpec
}

var (
	initOnce   sync.Once
	current    *Catalog
	initialErr error
)

// Init loads the process-wide catalog exactly once.
func Init() error {
	initOnce.Do(func() {
		current, initialErr = Load(FilesFromEnv())
	})
	return initialErr
}

// Default returns the catalog loaded by Init, or nil before a successful Init.
func Default() *Catalog { return current }

// Load reads and validates a catalog.
func Load(files Files) (*Catalog, error) {
	specs, err := readList[AtomSpec](files.Atoms, assets.AtomsFile, "atom")
	if err != nil {
		return nil, fmt.Errorf("catalog atoms: %w", err)
	}
	fragments, err := readList[MoleculeSpec](files.Fragments, assets.FragmentsFile, "molecule")
	if err != nil {
		return nil, fmt.Errorf("catalog fragments: %w", err)
	}
	bonus, err := readList[MoleculeSpec](files.Bonus, assets.BonusFile, "molecule")
	if err != nil {
		return nil, fmt.Errorf("catalog bonus: %w", err)
	}
	return New(specs, fragments, bonus)
}

// New builds a catalog from already decoded records.
func New(specs []AtomSpec, fragments, bonus []MoleculeSpec) (*Catalog, error) {
	c := &Catalog{
		specs:     specs,
		atoms:     make(molecule.Catalog, len(specs)),
		fragments: fragments,
		bonus:     bonus,
	}
	for _, s := range specs {
		a, err := s.Atom()
		if err != nil {
			return nil, err
		}
		if _, dup := c.atoms[a.Symbol]; dup {
			return nil, fmt.Errorf("atom %q defined twice", a.Symbol)
		}
		c.atoms[a.Symbol] = a
	}
	if len(c.atoms) == 0 {
		return nil, errors.New("atom table is empty")
	}
	if len(c.fragments) == 0 {
		return nil, errors.New("no fragments")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every fragment and bonus layout parses and that
// fragment names are unique.
func (c *Catalog) Validate() error {
	seen := map[string]bool{}
	for _, f := range c.fragments {
		if seen[f.Name] {
			return fmt.Errorf("fragment %q defined twice", f.Name)
		}
		seen[f.Name] = true
		if _, err := c.Build(f); err != nil {
			return fmt.Errorf("fragment: %w", err)
		}
	}
	for _, b := range c.bonus {
		m, err := c.Build(b)
		if err != nil {
			return fmt.Errorf("bonus: %w", err)
		}
		if m.HasFreeBonds() {
			return fmt.Errorf("bonus %q has free bonds", b.Name)
		}
	}
	return nil
}

// Atoms returns a copy of the symbol table for molecule.Parse.
func (c *Catalog) Atoms() molecule.Catalog {
	out := make(molecule.Catalog, len(c.atoms))
	for k, v := range c.atoms {
		out[k] = v
	}
	return out
}

// AtomSpecs returns the atom records in file order.
func (c *Catalog) AtomSpecs() []AtomSpec { return append([]AtomSpec(nil), c.specs...) }

// Fragments returns the spawnable fragments in file order.
func (c *Catalog) Fragments() []MoleculeSpec { return append([]MoleculeSpec(nil), c.fragments...) }

// Bonus returns the bonus targets in file order.
func (c *Catalog) Bonus() []MoleculeSpec { return append([]MoleculeSpec(nil), c.bonus...) }

// Fragment looks up a fragment by name.
func (c *Catalog) Fragment(name string) (MoleculeSpec, error) {
	return find(c.fragments, name)
}

// BonusMolecule looks up a bonus target by name.
func (c *Catalog) BonusMolecule(name string) (MoleculeSpec, error) {
	return find(c.bonus, name)
}

func find(list []MoleculeSpec, name string) (MoleculeSpec, error) {
	for _, s := range list {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return MoleculeSpec{}, fmt.Errorf("%q: %w", name, ErrUnknownMolecule)
}

// DailyBonus returns the bonus target of the day for t. The choice only
// depends on the UTC date, the salt and the bonus list.
func (c *Catalog) DailyBonus(t time.Time, salt string) (MoleculeSpec, error) {
	if len(c.bonus) == 0 {
		return MoleculeSpec{}, fmt.Errorf("daily bonus: %w", ErrUnknownMolecule)
	}
	return c.bonus[daily.Index(t, salt, len(c.bonus))], nil
}

// Build parses a catalog layout into a fresh molecule.
func (c *Catalog) Build(s MoleculeSpec) (*molecule.Molecule, error) {
	return molecule.Parse(s.Name, c.atoms, s.Data)
}

// Parse parses an arbitrary layout against the atom table.
func (c *Catalog) Parse(name string, lines []string) (*molecule.Molecule, error) {
	return molecule.Parse(name, c.atoms, lines)
}

// ------------------------------- decoding ----------------------------------

// readList loads a record list from path, or from the embedded file when
// path is empty.
func readList[T any](path, embedded, table string) ([]T, error) {
	name := path
	var data []byte
	var err error
	if path == "" {
		name = embedded
		data, err = assets.Read(embedded)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return decodeList[T](name, data, table)
}

// decodeList decodes data by the extension of name. TOML documents keep the
// list under the given array-of-tables key.
func decodeList[T any](name string, data []byte, table string) ([]T, error) {
	var out []T
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	case ".toml":
		var doc map[string][]T
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = doc[table]
	default:
		return nil, fmt.Errorf("%s: unsupported catalog format %q", name, ext)
	}
	return out, nil
}
