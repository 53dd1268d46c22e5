package molecule

import (
	"errors"
	"fmt"
)

// Precondition failures of the molecule engine. All of them are raised
// synchronously to the immediate caller and leave the receiver untouched.
var (
	ErrInvalidSymbol         = errors.New("invalid atom symbol")
	ErrNotAdjacent           = errors.New("positions are not next to each other")
	ErrNotAnAtom             = errors.New("position does not contain an atom")
	ErrCorruptBondData       = errors.New("corrupt bond data")
	ErrInvalidBondCount      = errors.New("bond count must be in 1..3")
	ErrInsufficientFreeBonds = errors.New("more bonds requested than available")
	ErrInvalidOrientation    = errors.New("orientation must be horizontal or vertical")
	ErrMisplacedAtom         = errors.New("atom symbol on a bond position")
)

// SymbolError reports a layout character that is neither a space nor a
// catalog symbol.
type SymbolError struct {
	Molecule string
	Symbol   rune
	Pos      Position
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("invalid atom symbol %q in %q at position %s", e.Symbol, e.Molecule, e.Pos)
}

func (e *SymbolError) Unwrap() error { return ErrInvalidSymbol }
