package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned by transports that cannot express an absent
// entity as a nil result.
var ErrNotFound = errors.New("person not found")

// PeopleUpdate is one emission of a SubscribeAll stream.
type PeopleUpdate struct {
	People []Person
	Err    error
}

// PeopleRepository is the data-access boundary of the coordinator.
//
// A false success flag reports a recoverable failure (storage, network).
// A non-nil error is an unexpected fault.
type PeopleRepository interface {
	// SubscribeAll emits the full list now and after every change until ctx
	// ends, then closes the channel.
	SubscribeAll(ctx context.Context) <-chan PeopleUpdate
	// FindByID returns nil, nil when no person has the id.
	FindByID(ctx context.Context, id uuid.UUID) (*Person, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, p Person) (bool, error)
	AddAll(ctx context.Context, people []Person) (bool, error)
	Update(ctx context.Context, p Person) (bool, error)
	Remove(ctx context.Context, p Person) (bool, error)
}

// Snapshot reads the current list once through SubscribeAll.
func Snapshot(ctx context.Context, repo PeopleRepository) ([]Person, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	select {
	case u, ok := <-repo.SubscribeAll(ctx):
		if !ok {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("subscription closed without a snapshot")
		}
		if u.Err != nil {
			return nil, fmt.Errorf("snapshot: %w", u.Err)
		}
		return u.People, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
