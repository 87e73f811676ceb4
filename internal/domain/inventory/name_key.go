package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameKey normaliza un nombre para la regla de unicidad del catálogo:
// espacios colapsados, sin diacríticos y en minúsculas ("  Ivermectína 1% " -> "ivermectina 1%").
func NameKey(name string) string {
	collapsed := strings.Join(strings.Fields(name), " ")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, collapsed)
	if err != nil {
		plain = collapsed
	}
	return cases.Fold().String(plain)
}
