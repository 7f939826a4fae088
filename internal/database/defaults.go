package database

import (
	"context"
	"fmt"

	"github.com/jask/jaskcontacts/internal/domain"
)

// RestoreIfEmpty adds people to repo only when it holds nobody yet.
// It is idempotent and safe to run on every startup.
func RestoreIfEmpty(ctx context.Context, repo domain.PeopleRepository, people []domain.Person) (int, error) {
	if len(people) == 0 {
		return 0, nil
	}
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	ok, err := repo.AddAll(ctx, people)
	if err != nil {
		return 0, fmt.Errorf("restore people: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("restore people: rejected by repository")
	}
	return len(people), nil
}
