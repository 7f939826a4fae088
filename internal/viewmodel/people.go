// Package viewmodel coordinates the people screens: it owns the observable
// states the presentation renders, stages edits, and turns every repository
// outcome into a state transition.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/jaskcontacts/internal/domain"
	"github.com/jask/jaskcontacts/internal/uistate"
	"github.com/jask/jaskcontacts/internal/validation"
)

// User-facing messages.
const (
	MsgNotFound     = "not found"
	MsgSaveFailed   = "save failed"
	MsgRemoveFailed = "remove failed"
	MsgTimedOut     = "repository timed out"
)

// DefaultTimeout bounds a single repository call.
const DefaultTimeout = 10 * time.Second

var errPanic = errors.New("unexpected error")

// Option configures People.
type Option func(*People)

// WithLogger sets the logger transitions are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(vm *People) {
		if l != nil {
			vm.log = l
		}
	}
}

// WithTimeout bounds every repository call; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(vm *People) { vm.timeout = d }
}

// People is the coordinator for the list and detail screens.
//
// The current and list states are independent. Operations on the current
// person are single-flight: starting one cancels the previous one and its
// late result is dropped. The list has at most one live subscription.
type People struct {
	repo    domain.PeopleRepository
	log     *slog.Logger
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	current *uistate.Flow[domain.Person]
	list    *uistate.Flow[[]domain.Person]

	mu            sync.Mutex
	closed        bool
	fields        validation.Fields
	errs          validation.FieldErrors
	lastGood      *domain.Person
	lastList      []domain.Person
	currentGen    uint64
	currentCancel context.CancelFunc
	listGen       uint64
	listCancel    context.CancelFunc
}

// New returns a coordinator with both states Empty.
func New(repo domain.PeopleRepository, opts ...Option) *People {
	ctx, cancel := context.WithCancel(context.Background())
	vm := &People{
		repo:    repo,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: DefaultTimeout,
		ctx:     ctx,
		cancel:  cancel,
		current: uistate.NewFlow[domain.Person](),
		list:    uistate.NewFlow[[]domain.Person](),
		errs:    validation.FieldErrors{},
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

// Current is the state of the person shown on the detail screen.
func (vm *People) Current() uistate.Observable[domain.Person] { return vm.current }

// List is the state of the people list.
func (vm *People) List() uistate.Observable[[]domain.Person] { return vm.list }

// Fields returns the staged edits.
func (vm *People) Fields() validation.Fields {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.fields
}

// FieldErrors returns the errors of the last validation pass.
func (vm *People) FieldErrors() validation.FieldErrors {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	out := make(validation.FieldErrors, len(vm.errs))
	for k, v := range vm.errs {
		out[k] = v
	}
	return out
}

// LoadAll (re)subscribes to the repository and mirrors every emission into
// the list state. A prior subscription is cancelled first.
func (vm *People) LoadAll() {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	if vm.listCancel != nil {
		vm.listCancel()
	}
	vm.listGen++
	gen := vm.listGen
	subCtx, cancel := context.WithCancel(vm.ctx)
	vm.listCancel = cancel
	vm.setList(uistate.Loading[[]domain.Person]{})
	vm.wg.Add(1)
	vm.mu.Unlock()

	updates, err := guard(func() (<-chan domain.PeopleUpdate, error) {
		return vm.repo.SubscribeAll(subCtx), nil
	})
	if err != nil {
		vm.applyList(subCtx, gen, uistate.Fail[[]domain.Person](err.Error()))
		vm.wg.Done()
		return
	}

	go func() {
		defer vm.wg.Done()
		for {
			select {
			case <-subCtx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				vm.applyList(subCtx, gen, listState(u))
			}
		}
	}()
}

func listState(u domain.PeopleUpdate) uistate.State[[]domain.Person] {
	if u.Err != nil {
		return uistate.Fail[[]domain.Person](u.Err.Error())
	}
	if len(u.People) == 0 {
		return uistate.Empty[[]domain.Person]{}
	}
	items := make([]domain.Person, len(u.People))
	copy(items, u.People)
	return uistate.Succeed(items)
}

// ReadByID loads a person into the detail state and stages its fields.
func (vm *People) ReadByID(ctx context.Context, id uuid.UUID) {
	op, ok := vm.beginCurrent(ctx)
	if !ok {
		return
	}
	defer op.done()
	if !vm.applyCurrent(op, nil, uistate.Loading[domain.Person]{}) {
		return
	}

	p, err := guard(func() (*domain.Person, error) { return vm.repo.FindByID(op.ctx, id) })
	switch {
	case err != nil:
		vm.applyCurrent(op, nil, uistate.Fail[domain.Person](vm.faultMessage(op.ctx, err)))
	case p == nil:
		vm.applyCurrent(op, nil, uistate.FailRetreat[domain.Person](MsgNotFound))
	default:
		found := *p
		vm.applyCurrent(op, func() {
			vm.fields = fieldsOf(found)
			vm.errs = validation.FieldErrors{}
			vm.lastGood = &found
		}, uistate.Succeed(found))
	}
}

// OnFieldChange stages a single edit and revalidates that field.
func (vm *People) OnFieldChange(field validation.Field, value string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.fields = vm.fields.With(field, value)
	errs := make(validation.FieldErrors, len(vm.errs))
	for k, v := range vm.errs {
		errs[k] = v
	}
	if msg := validation.ValidateField(field, value); msg != "" {
		errs[field] = msg
	} else {
		delete(errs, field)
	}
	vm.errs = errs
}

// Add validates the staged fields and creates a new person from them.
func (vm *People) Add(ctx context.Context) {
	vm.commit(ctx, func(fs validation.Fields) domain.Person {
		p := personFrom(fs)
		p.ID = uuid.New()
		return p
	}, vm.repo.Add)
}

// Update validates the staged fields and writes them over person id.
func (vm *People) Update(ctx context.Context, id uuid.UUID) {
	vm.commit(ctx, func(fs validation.Fields) domain.Person {
		p := personFrom(fs)
		p.ID = id
		return p
	}, vm.repo.Update)
}

func (vm *People) commit(ctx context.Context, build func(validation.Fields) domain.Person, save func(context.Context, domain.Person) (bool, error)) {
	op, ok := vm.beginCurrent(ctx)
	if !ok {
		return
	}
	defer op.done()

	vm.mu.Lock()
	fields := vm.fields
	errs := validation.Validate(fields)
	vm.errs = errs
	vm.mu.Unlock()
	if !errs.Valid() {
		vm.applyCurrent(op, nil, uistate.Fail[domain.Person](errs.Joined()))
		return
	}

	person := build(fields)
	if !vm.applyCurrent(op, nil, uistate.Loading[domain.Person]{}) {
		return
	}
	saved, err := guard(func() (bool, error) { return save(op.ctx, person) })
	switch {
	case err != nil:
		vm.applyCurrent(op, nil, uistate.Fail[domain.Person](vm.faultMessage(op.ctx, err)))
	case !saved:
		vm.applyCurrent(op, nil, uistate.Fail[domain.Person](MsgSaveFailed))
	default:
		vm.applyCurrent(op, func() { vm.lastGood = &person }, uistate.SucceedAdvance(person))
	}
}

// Remove deletes a person and refreshes the list on success.
func (vm *People) Remove(ctx context.Context, p domain.Person) {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return
	}
	gen := vm.listGen
	vm.wg.Add(1)
	vm.mu.Unlock()
	defer vm.wg.Done()

	opCtx, cancel := vm.opContext(ctx)
	defer cancel()
	removed, err := guard(func() (bool, error) { return vm.repo.Remove(opCtx, p) })
	switch {
	case err != nil:
		vm.applyList(opCtx, gen, uistate.Fail[[]domain.Person](vm.faultMessage(opCtx, err)))
	case !removed:
		vm.applyList(opCtx, gen, uistate.Fail[[]domain.Person](MsgRemoveFailed))
	default:
		if canceled(opCtx) {
			return
		}
		vm.LoadAll()
	}
}

// Count reports the number of stored people, or 0 when the repository fails.
func (vm *People) Count(ctx context.Context) int {
	opCtx, cancel := vm.opContext(ctx)
	defer cancel()
	n, err := guard(func() (int, error) { return vm.repo.Count(opCtx) })
	if err != nil {
		vm.log.Warn("count people", "err", err)
		return 0
	}
	return n
}

// ClearState prepares the detail screen for creating a new person.
func (vm *People) ClearState() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.currentCancel != nil {
		vm.currentCancel()
		vm.currentCancel = nil
	}
	vm.currentGen++
	vm.fields = validation.Fields{}
	vm.errs = validation.FieldErrors{}
	vm.lastGood = &domain.Person{}
	vm.setCurrent(uistate.Succeed(domain.Person{}))
}

// OnUiStateFlowChange overrides the current state, typically to hand an
// acknowledged error back. Setting the same value again or nil is a no-op.
func (vm *People) OnUiStateFlowChange(s uistate.State[domain.Person]) {
	if s == nil {
		return
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.setCurrent(s)
}

// Acknowledge moves an Error in the current state back to the last good
// person, or to Empty when there is none.
func (vm *People) Acknowledge() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.current.Value().Kind() != uistate.KindError {
		return
	}
	if vm.lastGood != nil {
		vm.setCurrent(uistate.Succeed(*vm.lastGood))
		return
	}
	vm.setCurrent(uistate.Empty[domain.Person]{})
}

// AcknowledgeList moves an Error in the list state back to the last list
// the subscription delivered, or to Empty when that list had no people.
func (vm *People) AcknowledgeList() {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.list.Value().Kind() != uistate.KindError {
		return
	}
	if len(vm.lastList) > 0 {
		vm.setList(uistate.Succeed(vm.lastList))
		return
	}
	vm.setList(uistate.Empty[[]domain.Person]{})
}

// Close cancels every in-flight operation and the list subscription and
// waits for them to finish. No transition happens after Close returns.
func (vm *People) Close() {
	vm.mu.Lock()
	vm.closed = true
	if vm.currentCancel != nil {
		vm.currentCancel()
	}
	if vm.listCancel != nil {
		vm.listCancel()
	}
	vm.mu.Unlock()
	vm.cancel()
	vm.wg.Wait()
}

type currentOp struct {
	ctx  context.Context
	gen  uint64
	done func()
}

func (vm *People) beginCurrent(ctx context.Context) (currentOp, bool) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed {
		return currentOp{}, false
	}
	if vm.currentCancel != nil {
		vm.currentCancel()
	}
	vm.currentGen++
	opCtx, cancel := vm.opContext(ctx)
	vm.currentCancel = cancel
	vm.wg.Add(1)
	return currentOp{
		ctx: opCtx,
		gen: vm.currentGen,
		done: func() {
			cancel()
			vm.wg.Done()
		},
	}, true
}

// applyCurrent writes s unless op has been superseded or cancelled. stage
// runs under the same lock, only when s is written.
func (vm *People) applyCurrent(op currentOp, stage func(), s uistate.State[domain.Person]) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed || op.gen != vm.currentGen || canceled(op.ctx) {
		vm.log.Debug("discard stale result", "flow", "current", "state", uistate.Describe[domain.Person](s))
		return false
	}
	if stage != nil {
		stage()
	}
	vm.setCurrent(s)
	return true
}

func (vm *People) applyList(ctx context.Context, gen uint64, s uistate.State[[]domain.Person]) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.closed || gen != vm.listGen || canceled(ctx) {
		vm.log.Debug("discard stale result", "flow", "list", "state", uistate.Describe[[]domain.Person](s))
		return
	}
	vm.setList(s)
}

func (vm *People) setCurrent(s uistate.State[domain.Person]) {
	if vm.current.Set(s) {
		vm.log.Debug("transition", "flow", "current", "state", uistate.Describe[domain.Person](s))
	}
}

func (vm *People) setList(s uistate.State[[]domain.Person]) {
	switch st := s.(type) {
	case uistate.Success[[]domain.Person]:
		vm.lastList = st.Data
	case uistate.Empty[[]domain.Person]:
		vm.lastList = nil
	}
	if vm.list.Set(s) {
		vm.log.Debug("transition", "flow", "list", "state", uistate.Describe[[]domain.Person](s))
	}
}

// opContext derives a context that ends with ctx, with Close, or after the
// configured timeout.
func (vm *People) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(vm.ctx, cancel)
	if vm.timeout <= 0 {
		return opCtx, func() {
			stop()
			cancel()
		}
	}
	timed, cancelTimed := context.WithTimeout(opCtx, vm.timeout)
	return timed, func() {
		stop()
		cancelTimed()
		cancel()
	}
}

func (vm *People) faultMessage(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return MsgTimedOut
	}
	vm.log.Error("repository fault", "err", err)
	return err.Error()
}

// canceled reports an explicit cancellation; a deadline is a failure that
// still gets reported.
func canceled(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.Canceled)
}

// guard converts a panic in fn into an error.
func guard[R any](fn func() (R, error)) (r R, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", errPanic, rec)
		}
	}()
	return fn()
}

func fieldsOf(p domain.Person) validation.Fields {
	return validation.Fields{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     domain.Deref(p.Email),
		Phone:     domain.Deref(p.Phone),
		ImagePath: domain.Deref(p.ImagePath),
	}
}

func personFrom(fs validation.Fields) domain.Person {
	return domain.Person{
		FirstName: fs.FirstName,
		LastName:  fs.LastName,
		Email:     domain.Optional(fs.Email),
		Phone:     domain.Optional(fs.Phone),
		ImagePath: domain.Optional(fs.ImagePath),
	}
}
