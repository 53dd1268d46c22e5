// assets/embed.go
//
// Embedded default catalogs. The server runs with these when no catalog
// files are configured through the environment.
//
//   - atoms.json:     element table (symbol, name, color, bonds).
//   - fragments.json: spawnable pieces with a difficulty value.
//   - bonus.json:     complete target molecules with a value.

package assets

import (
	"embed"
)

//go:embed atoms.json fragments.json bonus.json
var FS embed.FS

// Names of the embedded catalog files.
const (
	AtomsFile     = "atoms.json"
	FragmentsFile = "fragments.json"
	BonusFile     = "bonus.json"
)

// Read returns the raw bytes of one embedded catalog file.
func Read(name string) ([]byte, error) {
	return FS.ReadFile(name)
}
