// Package regime implements the tax regime simulation engine: it computes the
// monthly tax liability of a business under MEI, Simples Nacional, Lucro
// Presumido and Lucro Real, ranks the eligible regimes and reports the
// savings of the cheapest one.
//
// Everything in this package is a pure function of its input. Nothing is
// cached, logged or shared between calls, so any function may be called
// concurrently.
package regime

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/tax-regime-simulator/pkg/textnorm"
)

// Regime identifies a taxation regime.
type Regime string

// Declaration order is also the ranking tie-break order.
const (
	MEI             Regime = "MEI"
	SimplesNacional Regime = "SimplesNacional"
	LucroPresumido  Regime = "LucroPresumido"
	LucroReal       Regime = "LucroReal"
)

// Regimes lists every known regime in declaration order.
func Regimes() []Regime {
	return []Regime{MEI, SimplesNacional, LucroPresumido, LucroReal}
}

// DisplayName returns the customary Portuguese name of the regime.
func (r Regime) DisplayName() string {
	switch r {
	case MEI:
		return "MEI"
	case SimplesNacional:
		return "Simples Nacional"
	case LucroPresumido:
		return "Lucro Presumido"
	case LucroReal:
		return "Lucro Real"
	default:
		return string(r)
	}
}

// Known reports whether r is one of the four declared regimes.
func (r Regime) Known() bool {
	return r.order() >= 0
}

func (r Regime) order() int {
	for i, known := range Regimes() {
		if r == known {
			return i
		}
	}
	return -1
}

var regimeAliases = map[string]Regime{
	"mei":              MEI,
	"simples":          SimplesNacional,
	"simples nacional": SimplesNacional,
	"simplesnacional":  SimplesNacional,
	"presumido":        LucroPresumido,
	"lucro presumido":  LucroPresumido,
	"lucropresumido":   LucroPresumido,
	"real":             LucroReal,
	"lucro real":       LucroReal,
	"lucroreal":        LucroReal,
}

// RegimeLabels lists every label ParseRegime accepts, sorted.
func RegimeLabels() []string {
	return sortedKeys(regimeAliases)
}

// ParseRegime maps a user-supplied regime label onto a Regime. Matching is
// case, accent and separator insensitive.
func ParseRegime(value string) (Regime, error) {
	key := textnorm.Fold(value)
	if r, ok := regimeAliases[key]; ok {
		return r, nil
	}
	return "", &InputError{Field: "regime", Reason: fmt.Sprintf("unknown regime %q", strings.TrimSpace(value))}
}

// Sector is the economic activity of the business.
type Sector string

const (
	Commerce Sector = "commerce"
	Services Sector = "services"
	Industry Sector = "industry"
)

// Known reports whether s is one of the declared sectors. Unknown sectors are
// accepted by the engine with neutral multipliers.
func (s Sector) Known() bool {
	switch s {
	case Commerce, Services, Industry:
		return true
	}
	return false
}

var sectorAliases = map[string]Sector{
	"commerce":  Commerce,
	"comercio":  Commerce,
	"retail":    Commerce,
	"varejo":    Commerce,
	"services":  Services,
	"service":   Services,
	"servicos":  Services,
	"servico":   Services,
	"industry":  Industry,
	"industria": Industry,
}

// SectorLabels lists every label ParseSector recognises, sorted.
func SectorLabels() []string {
	return sortedKeys(sectorAliases)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseSector maps a user-supplied sector label onto a Sector. The second
// return value is false when the label is not recognised, in which case the
// folded label is returned so callers can still report it.
func ParseSector(value string) (Sector, bool) {
	key := textnorm.Fold(value)
	if s, ok := sectorAliases[key]; ok {
		return s, true
	}
	return Sector(key), false
}
