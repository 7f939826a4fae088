package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcontacts/internal/database"
	"github.com/jask/jaskcontacts/internal/database/repository"
	"github.com/jask/jaskcontacts/internal/domain"
)

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "contacts.db")
	db, err := database.Prepare(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.RunMigrations(path))

	v, dirty, err := database.SchemaVersion(path)
	require.NoError(t, err)
	require.False(t, dirty)
	require.Equal(t, uint(1), v)
}

func TestRestoreIfEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Prepare(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewPeopleRepo(db)

	snapshot := []domain.Person{domain.NewPerson("Ada", "Lovelace"), domain.NewPerson("Grace", "Hopper")}
	n, err := database.RestoreIfEmpty(ctx, repo, snapshot)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// second run leaves the populated table alone
	n, err = database.RestoreIfEmpty(ctx, repo, []domain.Person{domain.NewPerson("Alan", "Turing")})
	require.NoError(t, err)
	require.Zero(t, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
