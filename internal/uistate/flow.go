package uistate

import (
	"context"
	"sync"
)

// Observable is the read side of a Flow handed to the presentation.
type Observable[T any] interface {
	Value() State[T]
	Subscribe(ctx context.Context) <-chan State[T]
}

// Flow holds the current State and fans every transition out to
// subscribers in order. A Set equal to the current value is not a
// transition and is not emitted.
type Flow[T any] struct {
	mu    sync.Mutex
	value State[T]
	subs  map[*subscriber[T]]struct{}
}

// NewFlow returns a Flow starting at Empty.
func NewFlow[T any]() *Flow[T] {
	return &Flow[T]{value: Empty[T]{}, subs: map[*subscriber[T]]struct{}{}}
}

func (f *Flow[T]) Value() State[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// Set replaces the value and reports whether it was a transition.
func (f *Flow[T]) Set(s State[T]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if Equal[T](f.value, s) {
		return false
	}
	f.value = s
	for sub := range f.subs {
		sub.push(s)
	}
	return true
}

// Subscribe delivers the current value followed by every later transition
// until ctx ends, then closes the channel. A slow reader never blocks Set
// and never loses a transition.
func (f *Flow[T]) Subscribe(ctx context.Context) <-chan State[T] {
	sub := &subscriber[T]{notify: make(chan struct{}, 1)}
	out := make(chan State[T])

	f.mu.Lock()
	sub.push(f.value)
	f.subs[sub] = struct{}{}
	f.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			f.mu.Lock()
			delete(f.subs, sub)
			f.mu.Unlock()
		}()
		for {
			for _, s := range sub.drain() {
				select {
				case out <- s:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-sub.notify:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

type subscriber[T any] struct {
	mu     sync.Mutex
	queue  []State[T]
	notify chan struct{}
}

func (s *subscriber[T]) push(v State[T]) {
	s.mu.Lock()
	s.queue = append(s.queue, v)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) drain() []State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}
