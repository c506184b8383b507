// Package textnorm folds free-form labels typed into web forms into stable
// lookup keys.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips diacritics and collapses any run of spaces,
// underscores, hyphens or dots into a single space.
// "  Lucro_Presumido " and "lucro presumido" fold to the same key, as do
// "Serviços" and "servicos".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	fields := strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-' || r == '.'
	})
	return strings.Join(fields, " ")
}
