// Package uistate holds the closed state type every screen observes and the
// observable holder the coordinator writes it through.
package uistate

import (
	"fmt"
	"reflect"
)

// Kind identifies a State variant independently of its payload type.
type Kind int

const (
	KindEmpty Kind = iota
	KindLoading
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is one of Empty, Loading, Success or Error.
//
//sumtype:decl
type State[T any] interface {
	Kind() Kind
	// Advance reports that the presentation should move forward once the
	// state has been shown.
	Advance() bool
	// Retreat reports that the presentation should return to the previous
	// screen once the state has been acknowledged.
	Retreat() bool
	sealed()
}

// Empty means nothing has been requested yet.
type Empty[T any] struct{}

func (Empty[T]) Kind() Kind    { return KindEmpty }
func (Empty[T]) Advance() bool { return false }
func (Empty[T]) Retreat() bool { return false }
func (Empty[T]) sealed()       {}

// Loading means an operation is in flight.
type Loading[T any] struct{}

func (Loading[T]) Kind() Kind    { return KindLoading }
func (Loading[T]) Advance() bool { return false }
func (Loading[T]) Retreat() bool { return false }
func (Loading[T]) sealed()       {}

// Success carries the payload of the last completed operation.
type Success[T any] struct {
	Data    T
	advance bool
}

// Succeed builds a plain Success.
func Succeed[T any](data T) Success[T] { return Success[T]{Data: data} }

// SucceedAdvance builds a Success telling the presentation to proceed, used
// after a committed add or update.
func SucceedAdvance[T any](data T) Success[T] { return Success[T]{Data: data, advance: true} }

func (s Success[T]) Kind() Kind    { return KindSuccess }
func (s Success[T]) Advance() bool { return s.advance }
func (Success[T]) Retreat() bool   { return false }
func (Success[T]) sealed()         {}

type signal uint8

const (
	signalNone signal = iota
	signalAdvance
	signalRetreat
)

// Error carries a user-facing message and at most one navigation signal.
type Error[T any] struct {
	message string
	signal  signal
}

// Fail builds an Error that keeps the presentation where it is.
func Fail[T any](message string) Error[T] { return Error[T]{message: message} }

// FailAdvance builds an Error treated as a soft success once dismissed.
func FailAdvance[T any](message string) Error[T] {
	return Error[T]{message: message, signal: signalAdvance}
}

// FailRetreat builds an Error that sends the presentation back once dismissed.
func FailRetreat[T any](message string) Error[T] {
	return Error[T]{message: message, signal: signalRetreat}
}

func (e Error[T]) Message() string { return e.message }
func (e Error[T]) Kind() Kind      { return KindError }
func (e Error[T]) Advance() bool   { return e.signal == signalAdvance }
func (e Error[T]) Retreat() bool   { return e.signal == signalRetreat }
func (Error[T]) sealed()           {}

func (e Error[T]) String() string { return e.message }

// Equal reports whether two states are interchangeable for observers. Empty
// and Loading compare by kind; Success compares payload and signal; Error
// compares message and signal.
func Equal[T any](a, b State[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Advance() != b.Advance() || a.Retreat() != b.Retreat() {
		return false
	}
	switch av := a.(type) {
	case Empty[T], Loading[T]:
		return true
	case Success[T]:
		bv, ok := b.(Success[T])
		return ok && reflect.DeepEqual(av.Data, bv.Data)
	case Error[T]:
		bv, ok := b.(Error[T])
		return ok && av.message == bv.message
	}
	return false
}

// Describe renders a state for logs.
func Describe[T any](s State[T]) string {
	switch v := s.(type) {
	case Empty[T]:
		return "Empty"
	case Loading[T]:
		return "Loading"
	case Success[T]:
		if v.advance {
			return "Success(advance)"
		}
		return "Success"
	case Error[T]:
		switch v.signal {
		case signalAdvance:
			return fmt.Sprintf("Error(%q, advance)", v.message)
		case signalRetreat:
			return fmt.Sprintf("Error(%q, retreat)", v.message)
		}
		return fmt.Sprintf("Error(%q)", v.message)
	}
	return "<nil>"
}
