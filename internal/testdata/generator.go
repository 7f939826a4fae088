package testdata

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jask/jaskcontacts/internal/domain"
)

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret", "Ken", "Frances", "John", "Radia", "Niklaus"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Thompson", "Allen", "McCarthy", "Perlman", "Wirth"}
	domains    = []string{"example.org", "mail.example.com", "contacts.test"}
)

// People returns n sample people. The same seed yields the same names;
// identities are always fresh.
func People(n int, seed int64) []domain.Person {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]domain.Person, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[rnd.Intn(len(firstNames))]
		last := lastNames[rnd.Intn(len(lastNames))]
		p := domain.NewPerson(first, last)
		if rnd.Intn(10) < 8 {
			email := fmt.Sprintf("%s.%s@%s", strings.ToLower(first), strings.ToLower(last), domains[rnd.Intn(len(domains))])
			p.Email = &email
		}
		if rnd.Intn(10) < 6 {
			phone := fmt.Sprintf("+49 %03d %07d", 150+rnd.Intn(30), rnd.Intn(10000000))
			p.Phone = &phone
		}
		out = append(out, p)
	}
	return out
}

// Seed adds n sample people to repo.
func Seed(ctx context.Context, repo domain.PeopleRepository, n int, seed int64) error {
	ok, err := repo.AddAll(ctx, People(n, seed))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("seed: repository rejected sample people")
	}
	return nil
}
