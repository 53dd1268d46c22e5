package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// Formula returns the molecular formula in Hill order: carbon first, then
// hydrogen, then every other symbol alphabetically. Without carbon all
// symbols are alphabetical. A count of 1 is omitted.
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	m.each(func(_ Position, a *Atom) { counts[a.Symbol]++ })

	symbols := make([]string, 0, len(counts))
	for s := range counts {
		symbols = append(symbols, s)
	}
	_, hasCarbon := counts["C"]
	rank := func(s string) int {
		if !hasCarbon {
			return 0
		}
		switch s {
		case "C":
			return 0
		case "H":
			return 1
		}
		return 2
	}
	sort.Slice(symbols, func(i, j int) bool {
		ri, rj := rank(symbols[i]), rank(symbols[j])
		if ri != rj {
			return ri < rj
		}
		return symbols[i] < symbols[j]
	})

	var sb strings.Builder
	for _, s := range symbols {
		sb.WriteString(s)
		if n := counts[s]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}
