// internal/catalog/spec.go
//
// Catalog record types and their decoders.
//
// An atom's "bonds" field takes one of two shapes:
//   - an integer valence 1..4, laid out as free slots clockwise from Up;
//   - an explicit {free: [4], bound: [4]} table.
//
// The same shapes are accepted from JSON, YAML and TOML sources.

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/chon/internal/molecule"
)

// BondSpec is the bonds field of an AtomSpec.
type BondSpec struct {
	Valence  int    `json:"valence,omitempty"`
	Free     [4]int `json:"free"`
	Bound    [4]int `json:"bound"`
	Explicit bool   `json:"-"`
}

// explicitBonds is the object form of BondSpec on the wire.
type explicitBonds struct {
	Free  []int `json:"free" yaml:"free" toml:"free"`
	Bound []int `json:"bound" yaml:"bound" toml:"bound"`
}

func (b *BondSpec) setExplicit(e explicitBonds) error {
	if len(e.Free) != 4 || (e.Bound != nil && len(e.Bound) != 4) {
		return errors.New("bonds: free and bound need 4 entries each")
	}
	*b = BondSpec{Explicit: true}
	copy(b.Free[:], e.Free)
	copy(b.Bound[:], e.Bound)
	return nil
}

// UnmarshalJSON accepts a number or an explicit bond table.
func (b *BondSpec) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*b = BondSpec{Valence: n}
		return nil
	}
	var e explicitBonds
	if err := json.Unmarshal(data, &e); err != nil {
		return fmt.Errorf("bonds: %w", err)
	}
	return b.setExplicit(e)
}

// MarshalJSON writes the shape the bonds were read from.
func (b BondSpec) MarshalJSON() ([]byte, error) {
	if !b.Explicit {
		return json.Marshal(b.Valence)
	}
	return json.Marshal(explicitBonds{Free: b.Free[:], Bound: b.Bound[:]})
}

// UnmarshalYAML accepts a scalar valence or an explicit bond mapping.
func (b *BondSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("bonds: %w", err)
		}
		*b = BondSpec{Valence: n}
		return nil
	}
	var e explicitBonds
	if err := value.Decode(&e); err != nil {
		return fmt.Errorf("bonds: %w", err)
	}
	return b.setExplicit(e)
}

// UnmarshalTOML receives the raw decoded value: an int64 or a table.
func (b *BondSpec) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case int64:
		*b = BondSpec{Valence: int(v)}
		return nil
	case map[string]any:
		var e explicitBonds
		var err error
		if e.Free, err = tomlInts(v["free"]); err != nil {
			return fmt.Errorf("bonds.free: %w", err)
		}
		if e.Bound, err = tomlInts(v["bound"]); err != nil {
			return fmt.Errorf("bonds.bound: %w", err)
		}
		return b.setExplicit(e)
	}
	return fmt.Errorf("bonds: unexpected %T", data)
}

func tomlInts(v any) ([]int, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	out := make([]int, len(list))
	for i, x := range list {
		n, ok := x.(int64)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected integer, got %T", i, x)
		}
		out[i] = int(n)
	}
	return out, nil
}

// AtomSpec describes one element of the atom table.
type AtomSpec struct {
	Symbol string    `json:"symbol" yaml:"symbol" toml:"symbol"`
	Name   string    `json:"name" yaml:"name" toml:"name"`
	Color  []float64 `json:"color" yaml:"color" toml:"color"`
	Bonds  BondSpec  `json:"bonds" yaml:"bonds" toml:"bonds"`
}

// Atom validates the record and builds the template atom.
func (s AtomSpec) Atom() (molecule.Atom, error) {
	if utf8.RuneCountInString(s.Symbol) != 1 {
		return molecule.Atom{}, fmt.Errorf("atom %q: symbol must be a single character", s.Symbol)
	}
	var color [4]float64
	switch len(s.Color) {
	case 3:
		copy(color[:], s.Color)
		color[3] = 1.0
	case 4:
		copy(color[:], s.Color)
	default:
		return molecule.Atom{}, fmt.Errorf("atom %q: color needs 3 or 4 components, got %d", s.Symbol, len(s.Color))
	}

	if !s.Bonds.Explicit {
		if s.Bonds.Valence < 1 || s.Bonds.Valence > 4 {
			return molecule.Atom{}, fmt.Errorf("atom %q: valence %d out of range 1..4", s.Symbol, s.Bonds.Valence)
		}
		return molecule.NewAtom(s.Symbol, s.Name, color, s.Bonds.Valence), nil
	}

	a := molecule.Atom{Symbol: s.Symbol, Name: s.Name, Color: color}
	a.Free = molecule.Bonds(s.Bonds.Free)
	a.Bound = molecule.Bonds(s.Bonds.Bound)
	for d := range a.Free {
		if a.Free[d] < 0 || a.Free[d] > 3 || a.Bound[d] < 0 || a.Bound[d] > 3 {
			return molecule.Atom{}, fmt.Errorf("atom %q: bad bond entry in direction %d", s.Symbol, d)
		}
	}
	if v := a.Valence(); v < 1 || v > 4 {
		return molecule.Atom{}, fmt.Errorf("atom %q: valence %d out of range 1..4", s.Symbol, v)
	}
	return a, nil
}

// MoleculeSpec is a named layout with a value, used for fragments and bonus
// targets.
type MoleculeSpec struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Value int      `json:"value" yaml:"value" toml:"value"`
	Data  []string `json:"data" yaml:"data" toml:"data"`
}
