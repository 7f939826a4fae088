package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcontacts/internal/domain"
)

func TestNormalize(t *testing.T) {
	require.Equal(t, "jose nunez", Normalize("  José   NÚÑEZ "))
	require.Equal(t, "strasse", Normalize("STRASSE"))
	require.Equal(t, "", Normalize("   "))
}

func TestFilter(t *testing.T) {
	ada := domain.NewPerson("Ada", "Lovelace")
	jose := domain.NewPerson("José", "Núñez")
	jose.Phone = domain.Optional("+34 600 123 456")
	people := []domain.Person{ada, jose}

	require.Len(t, Filter(people, ""), 2)
	require.Equal(t, []domain.Person{jose}, Filter(people, "nunez"))
	require.Equal(t, []domain.Person{jose}, Filter(people, "600 123"))
	require.Equal(t, []domain.Person{ada}, Filter(people, "LOVE"))
	require.Empty(t, Filter(people, "turing"))
}

func TestFindDuplicates(t *testing.T) {
	ada := domain.NewPerson("Ada", "Lovelace")
	adaTypo := domain.NewPerson("Ada", "Lovelase")
	grace := domain.NewPerson("Grace", "Hopper")
	grace.Email = domain.Optional("grace@navy.mil")
	amazing := domain.NewPerson("Amazing", "Grace")
	amazing.Email = domain.Optional("GRACE@navy.mil")
	alan := domain.NewPerson("Alan", "Turing")
	alan.Phone = domain.Optional("+44 (0) 1234 5678")
	turing := domain.NewPerson("A.", "M. T.")
	turing.Phone = domain.Optional("+44 0 1234-5678")
	edsger := domain.NewPerson("Edsger", "Dijkstra")

	dupes := FindDuplicates([]domain.Person{ada, grace, alan, adaTypo, amazing, turing, edsger}, 0)
	require.Len(t, dupes, 3)

	require.Equal(t, ada.ID, dupes[0].A.ID)
	require.Equal(t, adaTypo.ID, dupes[0].B.ID)
	require.Equal(t, "name", dupes[0].Reason)
	require.InDelta(t, 1-1.0/12, dupes[0].Score, 0.0001)

	require.Equal(t, "email", dupes[1].Reason)
	require.Equal(t, grace.ID, dupes[1].A.ID)

	require.Equal(t, "phone", dupes[2].Reason)
	require.Equal(t, alan.ID, dupes[2].A.ID)
}
