package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeSearchTerm lowercases a term and strips diacritics so that
// "Azúcar" matches "azucar". Falls back to plain lowercasing if the
// transform fails on malformed input.
func NormalizeSearchTerm(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLikePattern escapes LIKE metacharacters in a user-supplied term so a
// query of "%" matches a literal percent sign instead of the whole catalog.
// Postgres treats backslash as the default LIKE escape character.
func EscapeLikePattern(s string) string {
	return likeEscaper.Replace(s)
}

// SplitSearchTerms splits a free-text query on commas and normalizes each
// term, dropping empties. Callers treat the result as OR-matched terms.
func SplitSearchTerms(query string) []string {
	parts := strings.Split(query, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := NormalizeSearchTerm(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
