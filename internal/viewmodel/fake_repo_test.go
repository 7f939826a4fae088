package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/domain"
)

// fakeRepo is an in-memory PeopleRepository with failure and blocking hooks.
type fakeRepo struct {
	mu     sync.Mutex
	people []domain.Person
	subs   map[chan domain.PeopleUpdate]struct{}

	addOK    bool
	updateOK bool
	removeOK bool
	findErr  error
	panicOn  string
	gates    map[uuid.UUID]chan struct{}

	subscribeCalls int
	addCalls       int
	updateCalls    int
}

func newFakeRepo(people ...domain.Person) *fakeRepo {
	return &fakeRepo{
		people:   people,
		subs:     map[chan domain.PeopleUpdate]struct{}{},
		addOK:    true,
		updateOK: true,
		removeOK: true,
		gates:    map[uuid.UUID]chan struct{}{},
	}
}

// gate makes FindByID(id) block until the returned func is called.
func (r *fakeRepo) gate(id uuid.UUID) func() {
	ch := make(chan struct{})
	r.mu.Lock()
	r.gates[id] = ch
	r.mu.Unlock()
	return func() { close(ch) }
}

func (r *fakeRepo) snapshot() []domain.Person {
	out := make([]domain.Person, len(r.people))
	copy(out, r.people)
	return out
}

func (r *fakeRepo) broadcast() {
	snap := r.snapshot()
	for ch := range r.subs {
		select {
		case ch <- domain.PeopleUpdate{People: snap}:
		default:
		}
	}
}

func (r *fakeRepo) SubscribeAll(ctx context.Context) <-chan domain.PeopleUpdate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicOn == "subscribe" {
		panic("subscribe exploded")
	}
	r.subscribeCalls++
	ch := make(chan domain.PeopleUpdate, 8)
	ch <- domain.PeopleUpdate{People: r.snapshot()}
	r.subs[ch] = struct{}{}
	go func() {
		<-ctx.Done()
		r.mu.Lock()
		delete(r.subs, ch)
		r.mu.Unlock()
	}()
	return ch
}

// push emits an arbitrary update to every subscriber.
func (r *fakeRepo) push(u domain.PeopleUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subs {
		ch <- u
	}
}

func (r *fakeRepo) activeSubscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Person, error) {
	r.mu.Lock()
	gate := r.gates[id]
	findErr := r.findErr
	panicking := r.panicOn == "find"
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if panicking {
		panic("find exploded")
	}
	if findErr != nil {
		return nil, findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.people {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.people), nil
}

func (r *fakeRepo) Add(_ context.Context, p domain.Person) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addCalls++
	if r.panicOn == "add" {
		panic("add exploded")
	}
	if !r.addOK {
		return false, nil
	}
	r.people = append(r.people, p)
	r.broadcast()
	return true, nil
}

func (r *fakeRepo) AddAll(_ context.Context, people []domain.Person) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.people = append(r.people, people...)
	r.broadcast()
	return true, nil
}

func (r *fakeRepo) Update(_ context.Context, p domain.Person) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if !r.updateOK {
		return false, nil
	}
	for i := range r.people {
		if r.people[i].ID == p.ID {
			r.people[i] = p
			r.broadcast()
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) Remove(_ context.Context, p domain.Person) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.panicOn == "remove" {
		return false, errors.New("disk on fire")
	}
	if !r.removeOK {
		return false, nil
	}
	for i := range r.people {
		if r.people[i].ID == p.ID {
			r.people = append(r.people[:i], r.people[i+1:]...)
			r.broadcast()
			return true, nil
		}
	}
	return false, nil
}
