package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jask/jaskcontacts/internal/domain"
)

var folder = cases.Fold()

// Normalize folds case, strips accents and collapses whitespace so that
// "  José  Núñez" and "jose nunez" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(folder.String(out)), " ")
}

// Matches reports whether query occurs in p's name, email or phone after
// normalization. An empty query matches everyone.
func Matches(p domain.Person, query string) bool {
	q := Normalize(query)
	if q == "" {
		return true
	}
	for _, s := range []string{p.FullName(), domain.Deref(p.Email), domain.Deref(p.Phone)} {
		if strings.Contains(Normalize(s), q) {
			return true
		}
	}
	return false
}

// Filter returns the people matching query, keeping their order.
func Filter(people []domain.Person, query string) []domain.Person {
	if Normalize(query) == "" {
		return people
	}
	out := make([]domain.Person, 0, len(people))
	for _, p := range people {
		if Matches(p, query) {
			out = append(out, p)
		}
	}
	return out
}
