package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jask/jaskcontacts/internal/api"
	"github.com/jask/jaskcontacts/internal/database"
	"github.com/jask/jaskcontacts/internal/database/repository"
	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/uistate"
	"github.com/jask/jaskcontacts/internal/validation"
	"github.com/jask/jaskcontacts/internal/viewmodel"
)

const waitFor = 2 * time.Second

func newClient(t *testing.T) (*Client, *repository.PeopleRepo) {
	t.Helper()
	db, err := database.Prepare(filepath.Join(t.TempDir(), "remote.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewPeopleRepo(db)
	srv := httptest.NewServer(api.NewRouter(&api.Server{People: repo}))
	t.Cleanup(srv.Close)
	return New(srv.URL, WithPollInterval(10*time.Millisecond)), repo
}

func TestNewAppendsPrefixOnce(t *testing.T) {
	require.Equal(t, "http://host:5000/api/v1.0", New("http://host:5000/").base)
	require.Equal(t, "http://host:5000/api/v1.0", New("http://host:5000/api/v1.0").base)
}

func TestClientCRUD(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	ada := domain.NewPerson("Ada", "Lovelace")
	ada.Email = domain.Optional("ada@example.org")
	ok, err := c.Add(ctx, ada)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.Add(ctx, ada)
	require.NoError(t, err)
	require.False(t, ok, "duplicate id is a recoverable failure")

	got, err := c.FindByID(ctx, ada.ID)
	require.NoError(t, err)
	require.Equal(t, &ada, got)

	missing, err := c.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	require.Nil(t, missing)

	ada.LastName = "King"
	ok, err = c.Update(ctx, ada)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.AddAll(ctx, []domain.Person{domain.NewPerson("Grace", "Hopper"), domain.NewPerson("Alan", "Turing")})
	require.NoError(t, err)
	require.True(t, ok)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	ok, err = c.Remove(ctx, ada)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = c.Remove(ctx, ada)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClientInvalidPersonIsRejected(t *testing.T) {
	c, _ := newClient(t)
	ok, err := c.Add(context.Background(), domain.Person{ID: uuid.New(), LastName: "Nameless"})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSubscribeAllEmitsOnChange(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c, repo := newClient(t)

	updates := c.SubscribeAll(ctx)
	first := <-updates
	require.NoError(t, first.Err)
	require.Empty(t, first.People)

	ok, err := repo.Add(ctx, domain.NewPerson("Ada", "Lovelace"))
	require.NoError(t, err)
	require.True(t, ok)

	select {
	case u := <-updates:
		require.NoError(t, u.Err)
		require.Len(t, u.People, 1)
	case <-time.After(waitFor):
		t.Fatal("no update after change")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-updates
		return !open
	}, waitFor, 5*time.Millisecond)
}

func TestServerFaultIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
	}))
	defer srv.Close()
	c := New(srv.URL)

	_, err := c.Count(context.Background())
	require.True(t, errors.Is(err, ErrStatus))
	require.Contains(t, err.Error(), "internal error")

	_, err = c.Add(context.Background(), domain.NewPerson("Ada", "Lovelace"))
	require.ErrorIs(t, err, ErrStatus)
}

func TestUnreachableServerWriteIsFalse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ok, err := New(url).Add(context.Background(), domain.NewPerson("Ada", "Lovelace"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestViewModelOverHTTP(t *testing.T) {
	c, _ := newClient(t)
	vm := viewmodel.New(c, viewmodel.WithTimeout(time.Second))
	defer vm.Close()

	vm.LoadAll()
	vm.ClearState()
	vm.OnFieldChange(validation.FirstName, "Grace")
	vm.OnFieldChange(validation.LastName, "Hopper")
	vm.Add(context.Background())

	cur := vm.Current().Value()
	require.Equal(t, uistate.KindSuccess, cur.Kind())
	require.True(t, cur.Advance())

	require.Eventually(t, func() bool {
		s, ok := vm.List().Value().(uistate.Success[[]domain.Person])
		return ok && len(s.Data) == 1 && s.Data[0].FirstName == "Grace"
	}, waitFor, 10*time.Millisecond)

	vm.ReadByID(context.Background(), uuid.New())
	e, ok := vm.Current().Value().(uistate.Error[domain.Person])
	require.True(t, ok)
	require.Equal(t, viewmodel.MsgNotFound, e.Message())
	require.True(t, e.Retreat())
}
