package service

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/jaskcontacts/internal/domain"
)

// DefaultNameSimilarity is the minimum name similarity for a fuzzy match.
const DefaultNameSimilarity = 0.8

// Duplicate is a pair of people that look like the same contact.
type Duplicate struct {
	A, B   domain.Person
	Reason string
	Score  float64
}

// FindDuplicates pairs people that share an email or phone, or whose
// normalized full names are at least threshold similar. Each pair is
// reported once, in list order.
func FindDuplicates(people []domain.Person, threshold float64) []Duplicate {
	if threshold <= 0 {
		threshold = DefaultNameSimilarity
	}
	var out []Duplicate
	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			a, b := people[i], people[j]
			switch {
			case sameContact(a.Email, b.Email, strings.ToLower):
				out = append(out, Duplicate{A: a, B: b, Reason: "email", Score: 1})
			case sameContact(a.Phone, b.Phone, digits):
				out = append(out, Duplicate{A: a, B: b, Reason: "phone", Score: 1})
			default:
				if s := similarity(a.FullName(), b.FullName()); s >= threshold {
					out = append(out, Duplicate{A: a, B: b, Reason: "name", Score: s})
				}
			}
		}
	}
	return out
}

func sameContact(a, b *string, canon func(string) string) bool {
	x, y := canon(strings.TrimSpace(domain.Deref(a))), canon(strings.TrimSpace(domain.Deref(b)))
	return x != "" && x == y
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func similarity(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)
	if a == "" || b == "" {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(max(len(ra), len(rb)))
}
