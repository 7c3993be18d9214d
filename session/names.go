package session

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// allowedNames são os dois membros da equipe, com e sem acento.
var allowedNames = []string{"tomas", "tomás", "juan josé", "juan jose"}

// NormalizeName deixa o nome comparável: minúsculas, sem acentos,
// espaços colapsados.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.Join(strings.Fields(strings.ToLower(stripped)), " ")
}

// IsAllowed indica se o nome pertence à lista da equipe.
func IsAllowed(name string) bool {
	n := NormalizeName(name)
	if n == "" {
		return false
	}
	for _, allowed := range allowedNames {
		if NormalizeName(allowed) == n {
			return true
		}
	}
	return false
}

// DisplayName põe a primeira letra de cada palavra em maiúscula, mantendo o resto.
func DisplayName(raw string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(strings.Fields(raw), " "))
}
